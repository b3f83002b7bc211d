package qa

import (
	"fmt"
	"strings"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/pkg/schema"

	einoschema "github.com/cloudwego/eino/schema"
)

// constitutionSystemPrompt pins the model to the corpus and the citation
// rules. Every answer request starts with it.
const constitutionSystemPrompt = `You are ConstitutionGPT, an expert AI assistant specializing in the Indian Constitution.
Your purpose is to provide accurate, detailed, and helpful information based ONLY on the Indian Constitution.

When answering questions, follow these guidelines:
1. Base your answers exclusively on the Indian Constitution and related jurisprudence
2. Always cite specific articles, amendments, or sections when relevant
3. If a topic isn't covered in the provided context, acknowledge the limitations and do not make up information
4. Maintain a respectful, educational tone and avoid political bias
5. If you're unsure about any information, acknowledge the limitations of your knowledge
6. Structure your responses clearly, using headings and bullet points when appropriate
7. When quoting from the Constitution, clearly indicate it as a direct quote

Remember, your primary goal is to educate users about the Indian Constitution accurately.`

// contextDirective closes the context message with the citation rules.
const contextDirective = `Please provide a detailed answer that:
1. Cites specific articles and sections (e.g., "Article 51A(a)")
2. Uses direct quotes when appropriate
3. Organizes information clearly
4. References only the information provided above`

// emptyContextNotice replaces the context block when retrieval found
// nothing above the similarity threshold.
const emptyContextNotice = `No relevant provisions were found in the indexed text of the Constitution for this question. Say so plainly, acknowledge the limitation, and do not answer from outside the provided material.`

// buildMessages assembles the model request: system prompt, prior turns,
// the question, then the retrieved context as a closing system message.
// History turns with roles other than user or assistant are not replayed.
func buildMessages(question string, docs []*schema.Document, history []schema.Message) []*einoschema.Message {
	messages := []*einoschema.Message{
		einoschema.SystemMessage(constitutionSystemPrompt),
	}

	for _, turn := range history {
		switch turn.Role {
		case schema.User, schema.Assistant:
			messages = append(messages, turn.ToEinoMessage())
		}
	}

	messages = append(messages, einoschema.UserMessage(question))
	messages = append(messages, einoschema.SystemMessage(contextMessage(docs)))
	return messages
}

func contextMessage(docs []*schema.Document) string {
	if len(docs) == 0 {
		return emptyContextNotice
	}
	return fmt.Sprintf("Here is the relevant information from the Indian Constitution to answer the question:\n\n%s\n\n%s",
		formatContext(docs), contextDirective)
}

// formatContext joins the retrieved chunks, each preceded by a label naming
// its place in the constitution.
func formatContext(docs []*schema.Document) string {
	var builder strings.Builder
	for i, doc := range docs {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(contextLabel(doc))
		builder.WriteString("\n")
		builder.WriteString(doc.Content)
	}
	return builder.String()
}

func contextLabel(doc *schema.Document) string {
	section := doc.MetaString(common.MetaSectionName, "")
	if section == "" {
		section = doc.MetaString(common.MetaSectionType, "")
	}
	article := doc.MetaString(common.MetaArticleNumber, "")

	switch {
	case section != "" && article != "":
		return fmt.Sprintf("[%s, Article %s]", section, article)
	case section != "":
		return fmt.Sprintf("[%s]", section)
	case article != "":
		return fmt.Sprintf("[Article %s]", article)
	default:
		return "[Constitutional text]"
	}
}
