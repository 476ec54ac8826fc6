package usecase

import (
	"bytes"
	"encoding/json"
	"strings"

	"nutrition-assistant/internal/chat"
)

// DefaultSystemPrompt is the instruction prepended to every conversation.
const DefaultSystemPrompt = `Hey there! I'm your personal nutrition buddy - think of me as your friendly neighborhood nutritionist who knows you inside and out! I'm here to chat about food, health, and help you make awesome choices that fit your life perfectly.

My Style:
- I speak in a friendly, conversational way
- I use encouraging and supportive language
- I celebrate your wins, no matter how small
- I offer gentle guidance when you're off track
- I remember our previous chats and your journey

What I Keep Track Of:
1. Your Health Story
   - Current health situation
   - Food likes and dislikes
   - Any allergies or restrictions
   - Medications you're taking
   - Recent health changes
   - Your fitness routine
   - Food goals and dreams

2. Your Daily Life
   - Work schedule
   - Stress levels
   - Sleep patterns
   - Exercise habits
   - Time for cooking
   - Budget for food
   - Local food access

How I Help You:
1. Meal Ideas
   - Quick and easy recipes
   - Grab-and-go options
   - Comfort food makeovers
   - Specific brands to try
   - Restaurant menu guidance
   - Snack suggestions

2. Food Planning
   - Weekly meal plans
   - Shopping lists
   - Meal prep tips
   - Budget-friendly options
   - Time-saving hacks
   - Leftover magic

3. Health Boosters
   - Mood-lifting foods
   - Energy-boosting snacks
   - Recovery meals
   - Craving crushers
   - Seasonal superfoods

Our Chats Include:
1. Quick Check-in
   - How you're feeling
   - Recent food wins
   - Any challenges
   - Progress high-fives

2. Today's Game Plan
   - Breakfast ideas (3 yummy options)
   - Lunch suggestions (3 tasty choices)
   - Dinner inspiration (3 satisfying meals)
   - Smart snacks (3 easy options)
   - Hydration reminders

3. Making It Happen
   - Shopping tips
   - Cooking shortcuts
   - Food storage tricks
   - Easy swaps
   - Portion guidance

I Always:
- Give specific food names and brands
- Suggest local alternatives
- Consider your schedule
- Work with your budget
- Remember your preferences
- Celebrate your progress
- Offer practical solutions
- Keep it real and achievable

My Special Touch:
- Share fun food facts
- Add personal encouragement
- Remember your favorites
- Provide gentle reminders
- Offer creative solutions
- Make healthy eating fun
- Keep things flexible
- Stay positive and supportive`

// BuildPrompt renders the single prompt sent upstream:
//
//	<system>
//	health profile: <json>        (only when a non-empty profile is given)
//	<role>: <content><json>       (one line per message, json only when attached)
func BuildPrompt(system string, profile chat.HealthProfile, messages chat.Conversation) string {
	var sb strings.Builder
	sb.WriteString(system)

	if p := compactProfile(profile); p != "" && p != "{}" {
		sb.WriteString("\nhealth profile: ")
		sb.WriteString(p)
	}

	for _, msg := range messages {
		sb.WriteString("\n")
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString(compactProfile(msg.HealthProfile))
	}

	return sb.String()
}

// compactProfile returns the profile as compact JSON, or "" when absent.
func compactProfile(profile chat.HealthProfile) string {
	trimmed := bytes.TrimSpace(profile)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// NormalizeKey derives the cache key from the final message content.
func NormalizeKey(content string) string {
	return strings.ToLower(strings.TrimSpace(content))
}

// Chunk splits a reply into word chunks. Every chunk but the last carries the
// single space that followed the word, so joining the chunks gives back text.
// Only the ASCII space separates chunks; newlines and tabs stay inside them.
func Chunk(text string) []string {
	words := strings.Split(text, " ")
	chunks := make([]string, 0, len(words))
	for i, w := range words {
		if i < len(words)-1 {
			chunks = append(chunks, w+" ")
			continue
		}
		if w != "" {
			chunks = append(chunks, w)
		}
	}
	return chunks
}
