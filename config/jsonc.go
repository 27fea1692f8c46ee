package config

// StripComments removes // line comments and /* */ block comments from
// JSON text. String literals are left untouched, so URLs survive. Newlines
// inside comments are kept to preserve line numbers in parse errors.
// Tabs outside strings become spaces so the result also parses as YAML.
func StripComments(data []byte) []byte {
	out := make([]byte, 0, len(data))

	const (
		code = iota
		str
		line
		block
	)
	state := code

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch state {
		case code:
			switch {
			case c == '"':
				state = str
				out = append(out, c)
			case c == '/' && i+1 < len(data) && data[i+1] == '/':
				state = line
				i++
			case c == '/' && i+1 < len(data) && data[i+1] == '*':
				state = block
				i++
			case c == '\t':
				// tabs are not valid YAML indentation
				out = append(out, ' ')
			default:
				out = append(out, c)
			}
		case str:
			out = append(out, c)
			switch c {
			case '\\':
				if i+1 < len(data) {
					i++
					out = append(out, data[i])
				}
			case '"':
				state = code
			}
		case line:
			if c == '\n' {
				state = code
				out = append(out, c)
			}
		case block:
			switch {
			case c == '*' && i+1 < len(data) && data[i+1] == '/':
				state = code
				i++
			case c == '\n':
				out = append(out, c)
			}
		}
	}
	return out
}
