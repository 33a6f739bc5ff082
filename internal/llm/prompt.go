package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as an outliner.
const SystemPrompt = `You are a highly precise document outlining assistant. Your sole task is to generate a hierarchical outline from the provided text chunk, strictly adhering to the user's detailed formatting and indentation rules. Output only the outline. Prioritize factual accuracy directly from the provided text.`

// OutlineInstructions describes the outline text format the parser reads.
const OutlineInstructions = `You are an expert document outliner. Analyze the provided text CHUNK and create a structured hierarchical outline.
Follow this formatting and indentation precisely.

Example format:
1. Main Topic One
|-- Key point under Main Topic One
| |-- Sub-point directly under the key point above
|-- Another key point under Main Topic One
  1.b Subsection Title (indented under Main Topic One)
  |-- Key point under subsection 1.b
  | |-- Sub-point under the key point of subsection 1.b
  |-- Another key point under subsection 1.b
2. Main Topic Two
|-- Key point directly under Main Topic Two

Formatting rules:
- Main sections start with a number and a period ("1. ", "2. ") and have no leading spaces.
- Subsections start with the section number, a letter and a space ("1.b ") and are indented by exactly two spaces.
- Bullet points always start with "|-- " (pipe, two hyphens, space).
- Bullets under a main section have no leading spaces. Bullets under a subsection have two leading spaces.
- Each deeper bullet level adds "| " before the "|-- ".

Please:
1. Extract all meaningful information from this chunk.
2. Organize it into a logical hierarchy following the rules above.
3. Only include facts supported by the provided text. Do not invent information.
4. Keep citations such as (Author, Year) inside the points where they appear.
5. Preserve the original language of the text.

Return only the formatted outline for this chunk, with no greetings or explanations.
If the chunk has no outlineable content, return an empty outline.`

// BuildChunkPrompt returns the instructions plus the position of this chunk
// within the document. index is 1-based.
func BuildChunkPrompt(index, total int) string {
	var sb strings.Builder
	sb.WriteString(OutlineInstructions)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("This is chunk %d of %d from a larger document.\n", index, total))
	sb.WriteString("Outline the content within this chunk only, following all formatting rules.")
	return sb.String()
}

// userMessage joins the prompt and the chunk into one user turn.
func userMessage(prompt, chunk string) string {
	return prompt + "\n\nHere is the text content for this chunk:\n\n---\n" + chunk + "\n---"
}
