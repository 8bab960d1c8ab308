package prompt

// Prompt IDs consumed by the pipeline.
const (
	AnswerFinancialQA = "answer.financial_qa"
	SynthesisReport   = "synthesis.report"
)

// registerDefaults installs the built-in prompts so the pipeline works
// without a resources directory. LoadFromDirectory can override them.
func registerDefaults(r *Registry) {
	_ = r.Register(&PromptTemplate{
		ID:           AnswerFinancialQA,
		Name:         "Financial Q&A",
		Category:     "answer",
		Description:  "Answers one sub-question from retrieved evidence",
		Version:      "1.0",
		SystemPrompt: `You are a financial analyst. Answer strictly from the provided context. Respond with a JSON object: {"answer": string, "confidence_score": number between 0 and 1, "data_sources": array of strings naming the evidence you used}. If the context is insufficient, say so in the answer and lower the confidence score.`,
		UserPromptTmpl: `Question ({{.Intent}} analysis): {{.Question}}

{{.Context}}

Answer the question using only the context above.`,
	})

	_ = r.Register(&PromptTemplate{
		ID:           SynthesisReport,
		Name:         "Reasoning Chain Report",
		Category:     "synthesis",
		Description:  "Headers and phrasing used by the answer synthesizer",
		Version:      "1.0",
		SystemPrompt: "",
		UserPromptTmpl: `# Analysis: {{.Question}}

{{.Body}}`,
	})
}
