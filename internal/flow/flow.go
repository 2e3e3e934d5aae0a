// Package flow drives the registration and login wizards as ordered
// field sequences with validation and back-navigation. The engine is
// pure: it maps (definition, state, input) to (next state, outcome) and
// leaves persistence and messaging to the caller.
package flow

// BackToken is the reserved reply-keyboard text that rewinds the wizard
// one step. It is checked before the field validator on every step.
const BackToken = "⬅️ Назад"

type Kind string

const (
	KindNone     Kind = ""
	KindRegister Kind = "register"
	KindLogin    Kind = "login"
)

// Field is one wizard step. Validate normalizes the input and reports
// whether it is acceptable; on failure the wizard stays on this step.
type Field struct {
	Name     string
	Prompt   string
	Validate func(string) (string, error)
}

type Definition struct {
	Kind   Kind
	Fields []Field
}

// State is the per-chat wizard position. Collected holds values only for
// steps already passed; the current step's field is absent until its
// input validates.
type State struct {
	Kind      Kind              `json:"kind"`
	Step      int               `json:"step"`
	Collected map[string]string `json:"collected"`
}

// Active reports whether a wizard is in progress.
func (s State) Active() bool {
	return s.Kind != KindNone
}

// Result is the outcome of feeding one input to the wizard.
type Result struct {
	// Prompt to show next: the next field's on advance, the same field's
	// on invalid input, the rewound field's on back.
	Prompt string
	// Done is set when the last field validated; Collected holds every
	// field value and the state returned alongside is idle.
	Done      bool
	Collected map[string]string
	// Cancelled is set when back fires on the first step.
	Cancelled bool
	// Invalid is the validation failure, if any; the step did not advance.
	Invalid error
}

// Start begins a wizard and returns its initial state and first prompt.
func Start(def Definition) (State, string) {
	st := State{
		Kind:      def.Kind,
		Step:      0,
		Collected: map[string]string{},
	}
	return st, def.Fields[0].Prompt
}

// Submit feeds one input to the wizard. The back token takes precedence
// over the current field's validator. A persisted step that no longer
// fits the definition (state written before a deploy changed the field
// list) is treated as stale and cancels the wizard.
func Submit(def Definition, st State, text string) (State, Result) {
	if st.Step < 0 || st.Step >= len(def.Fields) {
		return State{}, Result{Cancelled: true}
	}

	if text == BackToken {
		return Back(def, st)
	}

	field := def.Fields[st.Step]
	value, err := field.Validate(text)
	if err != nil {
		return st, Result{Prompt: field.Prompt, Invalid: err}
	}

	collected := cloneValues(st.Collected)
	collected[field.Name] = value

	if st.Step == len(def.Fields)-1 {
		return State{}, Result{Done: true, Collected: collected}
	}

	next := State{Kind: st.Kind, Step: st.Step + 1, Collected: collected}
	return next, Result{Prompt: def.Fields[next.Step].Prompt}
}

// Back rewinds the wizard one step, discarding the value of the step
// being returned to so it must be re-entered. On the first step it
// cancels the wizard instead.
func Back(def Definition, st State) (State, Result) {
	if st.Step <= 0 || st.Step >= len(def.Fields) {
		return State{}, Result{Cancelled: true}
	}

	prev := st.Step - 1
	collected := cloneValues(st.Collected)
	delete(collected, def.Fields[prev].Name)

	next := State{Kind: st.Kind, Step: prev, Collected: collected}
	return next, Result{Prompt: def.Fields[prev].Prompt}
}

func cloneValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
