package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptInitialFacts asks for interesting facts about the subject.
	// The template expects a %s placeholder for the retrieved context.
	PromptInitialFacts = "initial_facts"

	// PromptUserQuestion answers a user question from retrieved context.
	// The template expects %s (context) and %s (question) placeholders, in
	// that order, and instructs the model to answer "I don't know" when
	// the context lacks the needed information.
	PromptUserQuestion = "user_question"
)
