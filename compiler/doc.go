/*

Process of compilation

Assembly Text ->
	lex ->
Tokens (token) ->
	parse ->
Statement Tree (ast) ->
	expand macros and loops, resolve includes ->
Flat Statements ->
	resolve symbols ->
Binary Object

Only lex and parse live here.
Macro and loop definitions and include paths are recorded in the tree as written.

*/
package compiler
