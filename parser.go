package jsondoc

import (
	"math"
	"strconv"
	"strings"

	"github.com/cybergodev/jsondoc/internal"
)

// Parser reads JSON text into a Value tree. The zero configuration accepts
// strict JSON only; each mode setter widens what is accepted without
// changing the tree produced for input that was already accepted.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	simple    bool
	comment   bool
	squote    bool
	unstrict  bool
	maxObject int
	maxArray  int
	maxInput  int64
	err       *ParseError
}

// NewParser returns a parser configured from cfg, or a strict parser with
// default depth limits when cfg is omitted
func NewParser(cfg ...*Config) *Parser {
	c := resolveConfig(cfg)
	p := &Parser{
		simple:    c.Simple,
		comment:   c.Comment,
		squote:    c.SQuote,
		unstrict:  c.Unstrict,
		maxObject: c.MaxObjectDepth,
		maxArray:  c.MaxArrayDepth,
	}
	if p.maxObject <= 0 {
		p.maxObject = internal.DefaultMaxObjectDepth
	}
	if p.maxArray <= 0 {
		p.maxArray = internal.DefaultMaxArrayDepth
	}
	if c.MaxInputSize > 0 {
		p.maxInput = c.MaxInputSize
	}
	return p
}

// SetSimple accepts bare identifier keys
func (p *Parser) SetSimple(on bool) *Parser {
	p.simple = on
	return p
}

// SetComment skips /* */ and // comments wherever whitespace is legal
func (p *Parser) SetComment(on bool) *Parser {
	p.comment = on
	return p
}

// SetSQuote accepts single-quoted strings and keys
func (p *Parser) SetSQuote(on bool) *Parser {
	p.squote = on
	return p
}

// SetUnstrict accepts everything the other modes accept plus trailing
// commas, empty keys, case-insensitive literals and loosely escaped strings
func (p *Parser) SetUnstrict(on bool) *Parser {
	p.unstrict = on
	return p
}

// SetMaxDepth sets the object and array nesting limits. Non-positive values
// restore the defaults.
func (p *Parser) SetMaxDepth(object, array int) *Parser {
	if object <= 0 {
		object = internal.DefaultMaxObjectDepth
	}
	if array <= 0 {
		array = internal.DefaultMaxArrayDepth
	}
	p.maxObject, p.maxArray = object, array
	return p
}

// Err returns the failure of the last Parse call, or nil
func (p *Parser) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

// Parse reads text into v. The top level must be an object or an array.
// On failure v is left untouched, false is returned and Err describes the
// problem.
func (p *Parser) Parse(v *Value, text string) bool {
	p.err = nil
	if p.maxInput > 0 && int64(len(text)) > p.maxInput {
		p.err = &ParseError{
			Code:    CodeInvalid,
			Message: "input exceeds size limit of " + strconv.FormatInt(p.maxInput, 10) + " bytes",
			Err:     ErrSizeLimit,
		}
		logParseFailure(p.err, len(text))
		return false
	}

	s := scanner{
		src:       text,
		simple:    p.simple || p.unstrict,
		comment:   p.comment || p.unstrict,
		squote:    p.squote || p.unstrict,
		unstrict:  p.unstrict,
		maxObject: p.maxObject,
		maxArray:  p.maxArray,
	}
	out, ok := s.document()
	if !ok {
		p.err = s.error()
		logParseFailure(p.err, len(text))
		return false
	}
	v.Release()
	*v = out
	return true
}

// ParseString parses text with a strict parser
func ParseString(text string, cfg ...*Config) (Value, error) {
	p := NewParser(cfg...)
	var v Value
	if !p.Parse(&v, text) {
		return Value{}, p.Err()
	}
	return v, nil
}

// ============================================================================
// SCANNER
// ============================================================================

type scanner struct {
	src       string
	pos       int
	simple    bool
	comment   bool
	squote    bool
	unstrict  bool
	maxObject int
	maxArray  int
	objDepth  int
	arrDepth  int
	code      ErrorCode
	errPos    int
	msg       string
	cause     error
}

func (s *scanner) fail(code ErrorCode, msg string) bool {
	if s.code == CodeNone {
		s.code = code
		s.errPos = s.pos
		s.msg = msg
	}
	return false
}

// failCause is fail with a sentinel more specific than the code's default
func (s *scanner) failCause(code ErrorCode, msg string, cause error) bool {
	if s.code == CodeNone {
		s.cause = cause
	}
	return s.fail(code, msg)
}

func (s *scanner) error() *ParseError {
	start := s.errPos - internal.MaxErrorContext/2
	if start < 0 {
		start = 0
	}
	end := start + internal.MaxErrorContext
	if end > len(s.src) {
		end = len(s.src)
	}
	return &ParseError{
		Code:    s.code,
		Offset:  s.errPos,
		Context: s.src[start:end],
		Message: s.msg,
		Err:     causeFor(s.code, s.cause),
	}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

// skipSpace skips whitespace and, in comment mode, comments. An unclosed
// block comment consumes the rest of the input.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if internal.IsSpace(c) {
			s.pos++
			continue
		}
		if !s.comment || c != '/' || s.pos+1 >= len(s.src) {
			return
		}
		switch s.src[s.pos+1] {
		case '/':
			nl := strings.IndexByte(s.src[s.pos+2:], '\n')
			if nl < 0 {
				s.pos = len(s.src)
				return
			}
			s.pos += 2 + nl + 1
		case '*':
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end < 0 {
				s.pos = len(s.src)
				return
			}
			s.pos += 2 + end + 2
		default:
			return
		}
	}
}

func (s *scanner) document() (Value, bool) {
	if len(s.src) == 0 {
		return Value{}, s.fail(CodeEmpty, "empty input")
	}
	s.skipSpace()
	if s.eof() {
		return Value{}, s.fail(CodeEmpty, "input holds no value")
	}

	var v Value
	var ok bool
	switch s.src[s.pos] {
	case '{':
		ok = s.object(&v)
	case '[':
		ok = s.array(&v)
	default:
		return Value{}, s.fail(CodeStart, "top level must be an object or array")
	}
	if !ok {
		v.Release()
		return Value{}, false
	}

	s.skipSpace()
	if !s.eof() {
		v.Release()
		return Value{}, s.fail(CodeInvalid, "unexpected data after the top-level value")
	}
	return v, true
}

func (s *scanner) value(v *Value) bool {
	if s.eof() {
		return s.fail(CodeTrunc, "unexpected end of input, expecting a value")
	}
	switch c := s.src[s.pos]; c {
	case '{':
		return s.object(v)
	case '[':
		return s.array(v)
	case '"':
		return s.stringValue(v, '"')
	case '\'':
		if !s.squote {
			return s.fail(CodeValue, "single-quoted strings are not enabled")
		}
		return s.stringValue(v, '\'')
	case '-', '+', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return s.number(v)
	default:
		return s.literal(v)
	}
}

func (s *scanner) literal(v *Value) bool {
	rest := s.src[s.pos:]
	for _, lit := range [...]struct {
		text string
		val  Value
	}{
		{"true", NewBool(true)},
		{"false", NewBool(false)},
		{"null", Value{}},
	} {
		if len(rest) < len(lit.text) {
			continue
		}
		word := rest[:len(lit.text)]
		if word == lit.text || (s.unstrict && strings.EqualFold(word, lit.text)) {
			s.pos += len(lit.text)
			*v = lit.val
			return true
		}
	}
	if len(rest) < 5 && strings.HasPrefix("false", strings.ToLower(rest)) ||
		len(rest) < 4 && (strings.HasPrefix("true", strings.ToLower(rest)) || strings.HasPrefix("null", strings.ToLower(rest))) {
		return s.fail(CodeTrunc, "unexpected end of input inside a literal")
	}
	return s.fail(CodeValue, "unexpected character, expecting a value")
}

func (s *scanner) object(v *Value) bool {
	s.objDepth++
	if s.objDepth > s.maxObject {
		return s.fail(CodeDepth, "object nesting exceeds "+strconv.Itoa(s.maxObject))
	}
	s.pos++ // '{'

	var obj Object
	ok := s.members(&obj)
	s.objDepth--
	if !ok {
		obj.Release()
		return false
	}
	*v = Value{t: TypeObject, o: obj}
	if obj.p == nil {
		v.o.own()
	}
	return true
}

func (s *scanner) members(obj *Object) bool {
	s.skipSpace()
	if !s.eof() && s.src[s.pos] == '}' {
		s.pos++
		return true
	}
	for {
		key, ok := s.key()
		if !ok {
			return false
		}
		s.skipSpace()
		if s.eof() {
			return s.fail(CodeTrunc, "unexpected end of input, expecting ':'")
		}
		if s.src[s.pos] != ':' {
			return s.fail(CodeObject, "expecting ':' after key")
		}
		s.pos++
		s.skipSpace()

		var val Value
		if !s.value(&val) {
			return false
		}
		obj.adopt(internal.InternKey(key), val)

		s.skipSpace()
		if s.eof() {
			return s.fail(CodeTrunc, "unexpected end of input inside an object")
		}
		switch s.src[s.pos] {
		case '}':
			s.pos++
			return true
		case ',':
			s.pos++
			s.skipSpace()
			if s.unstrict && !s.eof() && s.src[s.pos] == '}' {
				s.pos++
				return true
			}
		default:
			return s.fail(CodeObject, "expecting ',' or '}' in object")
		}
	}
}

// key reads an object key after leading whitespace was skipped
func (s *scanner) key() (string, bool) {
	if s.eof() {
		return "", s.fail(CodeTrunc, "unexpected end of input, expecting a key")
	}
	switch c := s.src[s.pos]; {
	case c == '"':
		return s.quoted('"')
	case c == '\'' && s.squote:
		return s.quoted('\'')
	case c == ':' && s.unstrict:
		return "", true
	case s.simple && isBareKeyByte(c):
		start := s.pos
		for s.pos < len(s.src) && isBareKeyByte(s.src[s.pos]) {
			s.pos++
		}
		return s.src[start:s.pos], true
	}
	return "", s.fail(CodeKey, "expecting a quoted key")
}

// isBareKeyByte reports whether c may appear in an unquoted key, which ends
// at ':', whitespace or a structural character
func isBareKeyByte(c byte) bool {
	switch c {
	case ':', ' ', '\t', '\r', '\n', '{', '}', '[', ']', ',', '"', '\'':
		return false
	}
	return true
}

func (s *scanner) array(v *Value) bool {
	s.arrDepth++
	if s.arrDepth > s.maxArray {
		return s.fail(CodeDepth, "array nesting exceeds "+strconv.Itoa(s.maxArray))
	}
	s.pos++ // '['

	var arr Array
	ok := s.elements(&arr)
	s.arrDepth--
	if !ok {
		arr.Release()
		return false
	}
	*v = Value{t: TypeArray, a: arr}
	if arr.p == nil {
		v.a.own()
	}
	return true
}

func (s *scanner) elements(arr *Array) bool {
	s.skipSpace()
	if !s.eof() && s.src[s.pos] == ']' {
		s.pos++
		return true
	}
	for {
		var val Value
		if !s.value(&val) {
			return false
		}
		arr.adopt(val)

		s.skipSpace()
		if s.eof() {
			return s.fail(CodeTrunc, "unexpected end of input inside an array")
		}
		switch s.src[s.pos] {
		case ']':
			s.pos++
			return true
		case ',':
			s.pos++
			s.skipSpace()
			if s.unstrict && !s.eof() && s.src[s.pos] == ']' {
				s.pos++
				return true
			}
		default:
			return s.fail(CodeArray, "expecting ',' or ']' in array")
		}
	}
}

func (s *scanner) stringValue(v *Value, q byte) bool {
	text, ok := s.quoted(q)
	if !ok {
		return false
	}
	*v = NewString(text)
	return true
}

// quoted reads a string opened by q and returns it decoded. Strict scanning
// rejects raw control bytes and bad escapes; unstrict scanning only skips the
// byte after a backslash and keeps the raw text when decoding fails.
func (s *scanner) quoted(q byte) (string, bool) {
	start := s.pos + 1
	escaped := false
	i := start
	for {
		if i >= len(s.src) {
			s.pos = i
			return "", s.fail(CodeTrunc, "unexpected end of input inside a string")
		}
		c := s.src[i]
		if c == q {
			break
		}
		if c == '\\' {
			escaped = true
			if s.unstrict {
				i += 2
				continue
			}
			n, ok := internal.ValidEscape(s.src, i+1)
			if !ok {
				s.pos = i
				if i+1 >= len(s.src) {
					return "", s.fail(CodeTrunc, "unexpected end of input inside an escape")
				}
				return "", s.failCause(CodeQuote, "invalid escape sequence", ErrInvalidEscape)
			}
			i += 1 + n
			continue
		}
		if c < 0x20 && !s.unstrict {
			s.pos = i
			return "", s.fail(CodeQuote, "control character in string")
		}
		i++
	}
	raw := s.src[start:i]
	s.pos = i + 1
	if !escaped {
		return raw, true
	}
	out, ok := internal.AppendUnescaped(make([]byte, 0, len(raw)), raw)
	if !ok {
		// only reachable in unstrict mode
		return raw, true
	}
	return string(out), true
}

// number lexes [+-]digits[.digits][(e|E)[+-]digits]. Integers that fit in
// 64 bits become Int64 or UInt64; wider integers and anything with a
// fraction or exponent become Double.
func (s *scanner) number(v *Value) bool {
	start := s.pos
	neg := false
	if c := s.src[s.pos]; c == '-' || c == '+' {
		neg = c == '-'
		s.pos++
	}
	if s.eof() {
		return s.fail(CodeTrunc, "unexpected end of input inside a number")
	}
	if !internal.IsDigit(s.src[s.pos]) {
		return s.fail(CodeValue, "expecting a digit")
	}

	var mag uint64
	overflow := false
	for s.pos < len(s.src) && internal.IsDigit(s.src[s.pos]) {
		d := uint64(s.src[s.pos] - '0')
		if mag > (math.MaxUint64-d)/10 {
			overflow = true
		} else if !overflow {
			mag = mag*10 + d
		}
		s.pos++
	}

	isFloat := false
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		isFloat = true
		s.pos++
		if !s.digits() {
			return false
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		isFloat = true
		s.pos++
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		if !s.digits() {
			return false
		}
	}

	if !isFloat && !overflow {
		switch {
		case !neg:
			*v = NewUint(mag)
			return true
		case mag <= 1<<63:
			*v = NewInt(int64(-mag))
			return true
		}
	}

	f, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil && math.IsInf(f, 0) {
		s.pos = start
		return s.fail(CodeValue, "number out of range")
	}
	*v = NewDouble(f)
	return true
}

func (s *scanner) digits() bool {
	if s.eof() {
		return s.fail(CodeTrunc, "unexpected end of input inside a number")
	}
	if !internal.IsDigit(s.src[s.pos]) {
		return s.fail(CodeValue, "expecting a digit")
	}
	for s.pos < len(s.src) && internal.IsDigit(s.src[s.pos]) {
		s.pos++
	}
	return true
}
