package lang

// Expression is a node of a parsed paragraph: an [Identifier], a [RichText]
// literal or an [ExpressionList] application form.
type Expression interface {
	expression()
}

// Identifier refers to the value bound to Key.
type Identifier struct {
	Key StyleKey
}

// RichText is a literal run sequence. It is never re-parsed.
type RichText struct {
	Runs []Run
}

// ExpressionList is an application form: its head is applied to the rest.
// An empty list evaluates to [Unit].
type ExpressionList struct {
	Nodes []Expression
}

func (Identifier) expression()     {}
func (RichText) expression()       {}
func (ExpressionList) expression() {}

// Text returns the concatenated text of the literal's runs.
func (t RichText) Text() string { return runsText(t.Runs) }
