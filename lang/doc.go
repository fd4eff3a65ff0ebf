// Package lang implements the meow language: a program is a sequence of
// styled text runs, and identifiers are styles rather than names.
//
// # Keywords
//
// A run whose trimmed, lower-cased text is one of the cat sounds listed by
// [Keywords] ("meow", "nyan", "喵", ...) is a keyword. What a keyword means
// depends only on its style, captured as a [StyleKey]: two keywords spelled
// differently but styled alike are the same identifier.
//
// # Syntax
//
// [Parse] turns one paragraph into an [Expression]:
//
//   - an italic keyword opens a nested expression closed by the next
//     keyword with the same style
//   - a keyword with a single underline opens a literal closed the same way
//   - any other keyword is an [Identifier]
//   - plain runs between keywords form a [RichText] literal
//
// A paragraph with several nodes is an application: the first node is
// applied to the rest.
//
// # Evaluation
//
// An [Interpreter] evaluates paragraphs against a chain of [Environment]
// scopes whose root holds the builtins of a [Registry]. Functions receive
// evaluated arguments and macros receive expressions. Applying [Text]
// concatenates; lambdas close over the environment they were declared in.
//
// The standard builtins are bold keywords with a reserved highlight:
//
//	name      kind      color   highlight
//	let       macro     00B0F0  lightGray
//	lambda    macro     00B050  lightGray
//	integer   macro     7030A0  lightGray
//	print     function  EE0000  yellow
//	readline  function  00B0F0  yellow
//	list      function  FFC000  yellow
//	calc      function  0070C0  yellow
//
// Output and input go through a [Sink].
package lang
