package orchestrator

import (
	"fmt"
	"strings"

	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
)

// PromptBuilder renders the task-specific instruction blocks each
// capability agent sends to the generation service.
type PromptBuilder struct{}

// NewPromptBuilder creates a prompt builder.
func NewPromptBuilder() *PromptBuilder { return &PromptBuilder{} }

// FactCheck asks the model to judge truthfulness and justify the verdict.
func (b *PromptBuilder) FactCheck(newsText string, lang Language) string {
	if lang == LanguageUrduHindi {
		return fmt.Sprintf(`You are a fact-checking AI agent. Analyze the following news and respond if it's real, fake, biased, or misleading. Also give a short reasoning for your conclusion.
Respond in Urdu/Hindi with friendly language.

News:
'''%s'''

Give final verdict and explain why.`, newsText)
	}
	return fmt.Sprintf(`You are a fact-checking AI agent. Analyze the following news and respond if it's real, fake, biased, or misleading. Also give a short reasoning for your conclusion.

News:
'''%s'''

Give final verdict and explain why.`, newsText)
}

// Summarize requests a 3-5 sentence summary of the supplied text.
func (b *PromptBuilder) Summarize(text string) string {
	return fmt.Sprintf(`You are a summarizer agent. Your task is to summarize the following article or news text into a short and clear summary.

Text:
'''%s'''

Return a 3-5 sentence summary.`, text)
}

// LiveEvent combines the user's question with retrieved posts. When no
// posts were found, the prompt says so explicitly rather than omitting
// the section.
func (b *PromptBuilder) LiveEvent(question string, posts []ports.ExternalPost) string {
	return fmt.Sprintf(`You are TruthFinder, an AI assistant that analyzes news events using both news and social media data. Below is a user question about a recent event, and some recent tweets about the topic. Use both sources to provide a comprehensive, up-to-date answer.

User question: %s

Recent tweets:
%s

Answer:`, question, FormatPosts(posts))
}

// Sentiment asks for a sentiment and bias reading of the text.
func (b *PromptBuilder) Sentiment(text string) string {
	return fmt.Sprintf(`Analyze the sentiment and bias of the following text. Consider emotional language, tone, and overall message. State whether it reads POSITIVE, NEGATIVE, or NEUTRAL, whether it shows bias or propaganda patterns, and explain briefly.

Text: "%s"`, text)
}

// Keywords asks for the main topics and key terms of the text.
func (b *PromptBuilder) Keywords(text string) string {
	return fmt.Sprintf(`Extract the main topics and key terms from the following text. Return a short list of the most important keywords and named entities, one per line.

Text:
'''%s'''`, text)
}

// Statistic asks the model to check numeric claims in the text.
func (b *PromptBuilder) Statistic(text string) string {
	return fmt.Sprintf(`You are a statistics verification agent. Identify every numeric claim (counts, percentages, amounts) in the following text and assess whether each is plausible and consistent with commonly known figures. Explain your reasoning briefly.

Text:
'''%s'''`, text)
}

// SocialLookup asks for an overview of public discussion on a topic.
func (b *PromptBuilder) SocialLookup(topic string) string {
	return fmt.Sprintf(`You are a social media analysis agent. Describe what people are likely saying on social media about the following topic: main viewpoints, mood, and any polarization. Be clear when you are inferring rather than quoting.

Topic: %s`, topic)
}

// Report composes the three source-agent outputs into one briefing.
func (b *PromptBuilder) Report(message, summary, factCheck, keywords string) string {
	return fmt.Sprintf(`You are TruthFinder's report agent. Combine the analyses below into one coherent report about the user's request. Keep the structure: Summary, Fact-Check Verdict, Key Topics, Overall Assessment.

User request: %s

Summary analysis:
%s

Fact-check analysis:
%s

Key topics:
%s

Report:`, message, summary, factCheck, keywords)
}

// Conversational builds the generic assistant prompt, folding in the
// user's history when any exists.
func (b *PromptBuilder) Conversational(message, foldedHistory string, lang Language) string {
	langLine := ""
	if lang == LanguageUrduHindi {
		langLine = " Respond in Urdu/Hindi with friendly language."
	}

	if strings.TrimSpace(foldedHistory) == "" {
		return fmt.Sprintf(`You are TruthFinder, a friendly and helpful AI assistant. You can discuss news, current events, personal topics, and general questions. Be conversational, helpful, and engaging. You can analyze news, fact-check information, and have general conversations.%s
User: %s
Assistant:`, langLine, message)
	}

	return fmt.Sprintf(`You are TruthFinder, a friendly and helpful AI assistant. You can discuss news, current events, personal topics, and general questions. You have access to the user's chat history and personal information they've shared. If they ask about their personal data, provide it naturally from the conversation history. Never say you don't have access to personal data if it's in the conversation history.%s

Conversation history:
%s

User: %s
Assistant:`, langLine, foldedHistory, message)
}

// FormatPosts renders retrieved posts as plain text, one per paragraph.
func FormatPosts(posts []ports.ExternalPost) string {
	if len(posts) == 0 {
		return "No relevant tweets found."
	}
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		lines = append(lines, fmt.Sprintf("Tweet by @%s: %s", p.Author, p.Text))
	}
	return strings.Join(lines, "\n\n")
}
