package generation

import (
	"fmt"
	"strings"

	"github.com/deloreyj/conversa/internal/domain"
)

const enhanceSystemPrompt = `You are a prompt enhancement specialist for Portuguese language learning flashcard generation.
Your job is to take a user's request for flashcards and transform it into a clear, detailed prompt that will help an AI generate high-quality Portuguese flashcards.

Consider these aspects when enhancing:
- Clarify the specific learning goal or situation
- Specify the appropriate difficulty level if not mentioned
- Suggest the most suitable category (basics, situations, grammar)
- Add context about formality level needed
- Estimate appropriate number of cards for the topic

Return only the enhanced prompt, nothing else.`

func enhanceUserPrompt(userPrompt string) string {
	return fmt.Sprintf("Please enhance this flashcard request: %q", userPrompt)
}

const generateGuidelines = `You are an expert Portuguese language teacher creating flashcards for learners.

IMPORTANT GUIDELINES:
- Use casual and informal Portuguese unless the scenario requires formality
- Focus on phrases common to Lisbon, Portugal (European Portuguese)
- Write phonetic guides based on a Lisbon accent for American English speakers
- Aim for roughly 50 flashcards per pack unless the topic clearly needs more or fewer
- Include practical, commonly-used phrases
- DO NOT add any additional keys to the JSON output beyond the 3 required fields
- Each card should have exactly one english phrase and one portuguese phrase
- If the user asks for verb conjugations, DO NOT create cards with the infinitive form (e.g. "dormir" => "to sleep"). Instead create cards with the conjugated forms (e.g. "eu dormo" => "I sleep", "vamos dormir" => "Let's sleep", "ele dorme" => "He sleeps", etc.)

EXAMPLE CARDS:
{
  "portuguese": "Eu falo",
  "english": "I speak",
  "phonetic": "EEW fah-loh"
}
{
  "english": "May I pet your dog?",
  "portuguese": "Posso fazer uma festinha?",
  "phonetic": "Poh-soh fah-zeh-rah oo-mah fee-stee-nyah?"
}
{
  "english": "I'm sorry, I don't speak Portuguese.",
  "portuguese": "Desculpe, não falo português.",
  "phonetic": "Dess-koo-lpeh, now fah-loh portuh-gwess?"
}

OUTPUT FORMAT: You must return ONLY a valid JSON object (no additional text) matching this exact structure:
{
  "title": "Pack Title (max 100 chars)",
  "description": "Clear description of what learners will get (max 500 chars)",
  "emoji": "📚",
  "category": "basics|situations|grammar",
  "difficulty": "beginner|intermediate|advanced",
  "estimatedMinutes": number_between_1_and_120,
  "cards": [
    {
      "portuguese": "Portuguese phrase",
      "english": "English translation",
      "phonetic": "Phonetic guide for Americans"
    }
  ]
}`

// generateSystemPrompt builds the pack-generation instruction. A non-empty
// validationFeedback means this is the single regeneration attempt and the
// previous schema violations are spelled out for the model.
func generateSystemPrompt(enhancedPrompt string, validationFeedback string) string {
	var b strings.Builder
	b.WriteString(generateGuidelines)

	if validationFeedback != "" {
		b.WriteString("\n\nCRITICAL: Your previous response had validation errors. Please fix these specific issues:\n")
		b.WriteString(validationFeedback)
		b.WriteString("\n\nMake sure to follow the exact structure and requirements specified above.")
	}

	b.WriteString("\n\nThe user's enhanced request: ")
	b.WriteString(enhancedPrompt)
	return b.String()
}

// augmentSystemPrompt lists every existing card verbatim so the model cannot
// claim ignorance when it duplicates one.
func augmentSystemPrompt(existing []domain.Card, summary domain.PackSummary, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert Portuguese language teacher adding flashcards to an existing pack.

PACK: %q — %s
CATEGORY: %s
DIFFICULTY: %s

`, summary.Title, summary.Description, summary.Category, summary.Difficulty)

	b.WriteString("The pack already contains the following cards. DO NOT duplicate any of them:\n")
	for _, c := range existing {
		fmt.Fprintf(&b, "- %q => %q (phonetic: %q)\n", c.Portuguese, c.English, c.Phonetic)
	}

	fmt.Fprintf(&b, `
Create exactly %d NEW cards that fit the pack's category, difficulty and register:
- Use casual and informal European Portuguese (Lisbon) unless the pack requires formality
- Write phonetic guides based on a Lisbon accent for American English speakers
- Every card must be different from every existing card listed above

OUTPUT FORMAT: Return ONLY a valid JSON object (no additional text, no markdown) with this structure:
{
  "cards": [
    {
      "portuguese": "Portuguese phrase",
      "english": "English translation",
      "phonetic": "Phonetic guide for Americans"
    }
  ]
}`, count)

	return b.String()
}

func augmentUserPrompt(summary domain.PackSummary, count int, customPrompt string) string {
	if strings.TrimSpace(customPrompt) != "" {
		return fmt.Sprintf("Add %d new cards to the pack %q. Focus on: %s", count, summary.Title, strings.TrimSpace(customPrompt))
	}
	return fmt.Sprintf("Add %d new cards to the pack %q.", count, summary.Title)
}
