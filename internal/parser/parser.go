package parser

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/RichardKnop/tinysql/internal/tinysql"
)

var (
	ErrUnrecognizedStatement = errors.New("unrecognized statement")
	ErrSyntax                = errors.New("syntax error")
	ErrNegativeID            = errors.New("id must be positive")
	ErrStringTooLong         = errors.New("string is too long")
)

type StatementKind int

const (
	Insert StatementKind = iota + 1
	Select
)

func (k StatementKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Select:
		return "select"
	default:
		return "unknown"
	}
}

type Statement struct {
	Kind StatementKind
	Row  tinysql.Row // row to insert
}

var reservedWords = []string{
	"INSERT", "SELECT", ";",
}

type step int

const (
	stepBeginning step = iota + 1
	stepInsertID
	stepInsertUsername
	stepInsertEmail
	stepStatementEnd
)

type parser struct {
	Statement
	i     int // where we are in the input
	input string
	step  step
}

func New() *parser {
	return new(parser)
}

// Parse turns a single line of input into a statement:
//
//	insert <id> <username> <email>
//	select
//
// Keywords are case insensitive, a trailing semicolon is optional.
func (p *parser) Parse(ctx context.Context, input string) (Statement, error) {
	p.reset()
	p.input = strings.Join(strings.Fields(input), " ")

	if err := p.doParse(); err != nil {
		return Statement{}, err
	}
	return p.Statement, nil
}

func (p *parser) reset() {
	p.Statement = Statement{}
	p.input = ""
	p.step = stepBeginning
	p.i = 0
}

func (p *parser) doParse() error {
	for p.i < len(p.input) {
		switch p.step {
		case stepBeginning:
			switch p.peek() {
			case "INSERT":
				p.Kind = Insert
				p.pop()
				p.step = stepInsertID
			case "SELECT":
				p.Kind = Select
				p.pop()
				p.step = stepStatementEnd
			default:
				return ErrUnrecognizedStatement
			}
		case stepInsertID,
			stepInsertUsername,
			stepInsertEmail:
			if err := p.doParseInsert(); err != nil {
				return err
			}
		case stepStatementEnd:
			semicolon := p.pop()
			if semicolon != ";" || p.i < len(p.input) {
				return errors.Wrapf(ErrSyntax, "unexpected %q after %s statement", semicolon, p.Kind)
			}
		}
	}

	return p.validate()
}

func (p *parser) doParseInsert() error {
	switch p.step {
	case stepInsertID:
		value := p.pop()
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.Wrapf(ErrSyntax, "at INSERT: id %q is not an integer", value)
		}
		if id < 0 {
			return ErrNegativeID
		}
		if id > int64(^uint32(0)) {
			return errors.Wrapf(ErrSyntax, "at INSERT: id %d out of range", id)
		}
		p.Row.ID = uint32(id)
		p.step = stepInsertUsername
	case stepInsertUsername:
		username := p.pop()
		if len(username) > tinysql.UsernameSize {
			return errors.Wrapf(ErrStringTooLong, "username longer than %d bytes", tinysql.UsernameSize)
		}
		p.Row.Username = username
		p.step = stepInsertEmail
	case stepInsertEmail:
		email := p.pop()
		if len(email) > tinysql.EmailSize {
			return errors.Wrapf(ErrStringTooLong, "email longer than %d bytes", tinysql.EmailSize)
		}
		p.Row.Email = email
		p.step = stepStatementEnd
	}
	return nil
}

func (p *parser) validate() error {
	if p.Kind == 0 {
		return ErrUnrecognizedStatement
	}
	if p.Kind == Insert && p.step != stepStatementEnd {
		return errors.Wrap(ErrSyntax, "at INSERT: expected id, username and email")
	}
	return nil
}

// peek returns the next space separated token.
func (p *parser) peek() string {
	peeked, _ := p.peekWithLength()
	return peeked
}

func (p *parser) pop() string {
	peeked, len := p.peekWithLength()
	p.i += len
	p.popWhitespace()
	return peeked
}

func (p *parser) popWhitespace() {
	for ; p.i < len(p.input) && p.input[p.i] == ' '; p.i++ {
	}
}

func (p *parser) peekWithLength() (string, int) {
	if p.i >= len(p.input) {
		return "", 0
	}
	end := strings.IndexByte(p.input[p.i:], ' ')
	if end < 0 {
		end = len(p.input) - p.i
	}
	token := p.input[p.i : p.i+end]

	// A semicolon ends the statement even without a preceding space
	if p.step == stepStatementEnd || p.step == stepInsertEmail || p.step == stepBeginning {
		if trimmed := strings.TrimSuffix(token, ";"); trimmed != "" && trimmed != token {
			token = trimmed
		}
	}

	// Values are taken verbatim, keywords only start or end a statement
	if p.step != stepBeginning && p.step != stepStatementEnd {
		return token, len(token)
	}
	for _, rWord := range reservedWords {
		if strings.ToUpper(token) == rWord {
			return rWord, len(token)
		}
	}
	return token, len(token)
}
