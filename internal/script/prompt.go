package script

import (
	"fmt"
	"strings"
)

// Article text beyond this is truncated before prompting to stay inside
// model context limits.
const maxArticleChars = 4000

const aussieStyle = `Use a relaxed Australian conversational style: natural idioms ("mate",
"reckon", "no worries", "heaps"), casual contractions, and a friendly,
down-to-earth approach to complex topics. It should sound like two Aussie
mates discussing interesting news.`

const conversationalStyle = `Use a natural, conversational style: professional but friendly tone,
clear accessible language, natural speech patterns with contractions, and
a balance of casual conversation and informative content.`

func styleInstruction(style string) string {
	if strings.EqualFold(style, "aussie") {
		return aussieStyle
	}
	return conversationalStyle
}

// SystemPrompt builds the model's role instruction, including the strict
// JSON output contract the response validator depends on.
func SystemPrompt(req Request) string {
	return fmt.Sprintf(`You are an expert podcast script writer creating engaging conversational content.

Convert article content into a natural, flowing conversation between two podcast hosts.

CHARACTERS:
- %s: the primary host who introduces topics and guides the conversation
- %s: the co-host who provides insights, asks questions, and adds commentary

STYLE:
%s

TECHNICAL REQUIREMENTS:
- Return ONLY valid JSON with no additional text
- JSON structure: {"script": [list of turns]}
- Each turn: {"speaker": "host" or "guest", "text": "spoken content"}
- Keep individual turns between 20 and 100 words
- Aim for roughly %d total turns
- Stay factually accurate to the source material`,
		req.HostName, req.GuestName, styleInstruction(req.Style), req.TargetTurns)
}

// UserPrompt embeds the article into the generation request.
func UserPrompt(req Request) string {
	text := req.Text
	if len(text) > maxArticleChars {
		text = text[:maxArticleChars] + "..."
	}
	return fmt.Sprintf(`Create a conversational podcast script based on this article:

ARTICLE TITLE: %s

ARTICLE CONTENT:
%s

Create a natural conversation between %s (host) and %s (guest) discussing this
article. Open with %s introducing the topic, explore the key points from both
perspectives, and close with a short summary. Return ONLY the JSON response.`,
		req.Title, text, req.HostName, req.GuestName, req.HostName)
}
