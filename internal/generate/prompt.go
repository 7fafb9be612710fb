package generate

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemInstruction = `You are a senior journalist and trend-watcher for "Look Trending", a fast-paced news blog.
Your job is to identify breaking news, viral topics, and emerging trends across Technology, Science, World News, and Internet Culture.
You must RESEARCH facts using web search before writing.
You must cite your sources at the end of the article.
Do not write about topics provided in the "Exclusion List".
Tone: Engaging, investigative, factual, yet accessible.
Format: Clean Markdown.`

// JSON tends to break on markdown bodies full of quotes, so the writer
// answers in the sentinel format instead.
const formatBlock = `FORMATTING REQUIREMENTS:
Do NOT return JSON. Use the exact delimiters below to separate sections.

:::TITLE:::
(Write a catchy, journalistic headline here)
:::EXCERPT:::
(Write a 2-sentence hook/summary here)
:::AUTHOR:::
(The name of the persona, e.g. 'Trend Scout')
:::READ_TIME:::
(e.g. '4 min read')
:::TAGS:::
(Tag1, Tag2, Tag3 - comma separated)
:::IMAGE_PROMPT:::
(A highly detailed description for an editorial cover image representing this news story)
:::CONTENT:::
(The full article in Markdown. Must include a '## References' section at the bottom with a bulleted list of the source URLs you found. Format these explicitly as markdown links: - [Source Title](URL))`

const imageStyleSuffix = ". Editorial style, high quality news photography or sophisticated digital art, 4k resolution, cinematic lighting."

// ExclusionContext renders the list of already covered titles.
func ExclusionContext(titles []string) string {
	if len(titles) == 0 {
		return "No exclusions."
	}
	data, err := json.Marshal(titles)
	if err != nil {
		return "No exclusions."
	}
	return fmt.Sprintf("Do NOT write about these topics as they are already covered: %s.", data)
}

// BuildPrompt assembles the research prompt. brief may be empty.
func BuildPrompt(exclusions []string, brief string) string {
	var sb strings.Builder
	sb.WriteString("1. Use web search to find a specific, currently trending news story or viral topic in the last 24-48 hours.\n")
	fmt.Fprintf(&sb, "2. %s\n", ExclusionContext(exclusions))
	sb.WriteString("3. Research this topic thoroughly.\n")
	sb.WriteString("4. Write a complete blog post about it.\n\n")
	if brief != "" {
		sb.WriteString(brief)
		sb.WriteString("\n")
	}
	sb.WriteString(formatBlock)
	sb.WriteString("\n")
	return sb.String()
}

// EditorialImagePrompt decorates a cover image prompt with the house style.
func EditorialImagePrompt(prompt string) string {
	return strings.TrimSpace(prompt) + imageStyleSuffix
}
