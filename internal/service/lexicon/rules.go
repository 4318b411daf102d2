package lexicon

// Rule maps a predicate over In to a result. Rules are evaluated in table
// order and the first match wins, so table order is the precedence.
type Rule[In, Out any] struct {
	Name string
	When func(In) bool
	Then Out
}

// FirstMatch returns the result and name of the first matching rule, or
// fallback with an empty name.
func FirstMatch[In, Out any](rules []Rule[In, Out], in In, fallback Out) (Out, string) {
	for _, r := range rules {
		if r.When(in) {
			return r.Then, r.Name
		}
	}
	return fallback, ""
}

// AllMatches returns the results of every matching rule, in table order.
func AllMatches[In, Out any](rules []Rule[In, Out], in In) []Out {
	var out []Out
	for _, r := range rules {
		if r.When(in) {
			out = append(out, r.Then)
		}
	}
	return out
}

// KeywordRule builds a rule that fires when any keyword is present.
func KeywordRule[Out any](name string, keywords []string, then Out) Rule[Text, Out] {
	return Rule[Text, Out]{
		Name: name,
		When: func(t Text) bool { return t.Any(keywords) },
		Then: then,
	}
}
