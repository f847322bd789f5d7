package qb

import "strings"

var operators = map[string]struct{}{}

func init() {
	for _, op := range []string{
		"=", "<", ">", "<=", ">=", "<>", "!=", "<=>",
		"like", "like binary", "not like", "ilike",
		"&", "|", "^", "<<", ">>", "&~", "is", "is not",
		"rlike", "not rlike", "regexp", "not regexp",
		"~", "~*", "!~", "!~*", "similar to",
		"not similar to", "not ilike", "~~*", "!~~*",
	} {
		operators[op] = struct{}{}
	}
}

func invalidOperator(op string) bool {
	_, ok := operators[strings.ToLower(op)]
	return !ok
}
