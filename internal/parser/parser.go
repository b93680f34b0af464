package parser

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/leengari/minidb/internal/domain/schema"
	"github.com/leengari/minidb/internal/domain/value"
	"github.com/leengari/minidb/internal/parser/lexer"
	"github.com/leengari/minidb/internal/plan"
)

// Parser turns a token stream into a single plan.Node
type Parser struct {
	tokens  []lexer.Token
	curPos  int
	curTok  lexer.Token
	peekTok lexer.Token
}

func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens, curPos: 0}
	// Read two tokens to set curTok and peekTok
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a string of SQL into a statement
func Parse(sql string) (plan.Node, error) {
	tokens, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, err
	}
	return New(tokens).Parse()
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = lexer.Token{Type: lexer.EOF}
	}
}

// Parse parses exactly one statement, optionally followed by a semicolon
func (p *Parser) Parse() (plan.Node, error) {
	var (
		node plan.Node
		err  error
	)
	switch p.curTok.Type {
	case lexer.CREATE:
		node, err = p.parseCreateTable()
	case lexer.DROP:
		node, err = p.parseDropTable()
	case lexer.INSERT:
		node, err = p.parseInsert()
	case lexer.UPDATE:
		node, err = p.parseUpdate()
	case lexer.SELECT:
		node, err = p.parseSelect()
	case lexer.DELETE:
		node, err = p.parseDelete()
	default:
		return nil, p.unexpected("CREATE, DROP, INSERT, UPDATE, SELECT or DELETE")
	}
	if err != nil {
		return nil, err
	}

	// Semicolon (Optional)
	if p.curTok.Type == lexer.SEMICOLON {
		p.nextToken()
	}
	if p.curTok.Type != lexer.EOF {
		return nil, p.unexpected("end of statement")
	}
	return node, nil
}

// CREATE TABLE name (col TYPE [PRIMARY KEY] [DEFAULT lit] [NULL | NOT NULL] [INDEX], ...)
func (p *Parser) parseCreateTable() (*plan.CreateTableNode, error) {
	p.nextToken()
	if err := p.expect(lexer.TABLE); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.PAREN_OPEN); err != nil {
		return nil, err
	}

	s := &schema.Schema{Name: name}
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		s.Columns = append(s.Columns, col)

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if err := p.expect(lexer.PAREN_CLOSE); err != nil {
		return nil, err
	}
	return &plan.CreateTableNode{Schema: s}, nil
}

func (p *Parser) parseColumnDef() (schema.Column, error) {
	var col schema.Column

	name, err := p.parseIdentifier("column name")
	if err != nil {
		return col, err
	}
	col.Name = name

	if p.curTok.Type != lexer.IDENTIFIER {
		return col, p.unexpected("column type")
	}
	typ, ok := schema.ParseColumnType(p.curTok.Literal)
	if !ok {
		return col, errors.Errorf("unknown column type %s at line %d, col %d", p.curTok.Literal, p.curTok.Line, p.curTok.Column)
	}
	col.Type = typ
	p.nextToken()

	for {
		switch p.curTok.Type {
		case lexer.PRIMARY:
			p.nextToken()
			if err := p.expect(lexer.KEY); err != nil {
				return col, err
			}
			col.PrimaryKey = true
		case lexer.DEFAULT:
			p.nextToken()
			v, err := p.parseLiteral()
			if err != nil {
				return col, errors.Wrapf(err, "default for column %s", col.Name)
			}
			col.Default = v
		case lexer.INDEX:
			p.nextToken()
			col.Indexed = true
		case lexer.NULL:
			p.nextToken()
		case lexer.NOT:
			// nullability is not restricted; accepted for compatibility
			p.nextToken()
			if err := p.expect(lexer.NULL); err != nil {
				return col, err
			}
		default:
			return col, nil
		}
	}
}

// DROP TABLE name
func (p *Parser) parseDropTable() (*plan.DropTableNode, error) {
	p.nextToken()
	if err := p.expect(lexer.TABLE); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	return &plan.DropTableNode{TableName: name}, nil
}

// INSERT INTO name [(col, ...)] VALUES (lit, ...)[, (lit, ...)]
func (p *Parser) parseInsert() (*plan.InsertNode, error) {
	p.nextToken()
	if err := p.expect(lexer.INTO); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	stmt := &plan.InsertNode{TableName: name}

	if p.curTok.Type == lexer.PAREN_OPEN {
		p.nextToken()
		cols, err := p.parseIdentifierList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.PAREN_CLOSE); err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if err := p.expect(lexer.VALUES); err != nil {
		return nil, err
	}

	for {
		if err := p.expect(lexer.PAREN_OPEN); err != nil {
			return nil, err
		}
		var vals []value.Value
		for {
			v, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
			if p.curTok.Type != lexer.COMMA {
				break
			}
			p.nextToken()
		}
		if err := p.expect(lexer.PAREN_CLOSE); err != nil {
			return nil, err
		}
		stmt.Rows = append(stmt.Rows, vals)

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}
	return stmt, nil
}

// UPDATE name SET col = lit[, ...] [WHERE pred]
func (p *Parser) parseUpdate() (*plan.UpdateNode, error) {
	p.nextToken()
	name, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.SET); err != nil {
		return nil, err
	}

	stmt := &plan.UpdateNode{TableName: name}
	seen := make(map[string]bool)
	for {
		col, err := p.parseIdentifier("column name")
		if err != nil {
			return nil, err
		}
		if seen[col] {
			return nil, errors.Errorf("column %s assigned more than once", col)
		}
		seen[col] = true

		if err := p.expect(lexer.EQUALS); err != nil {
			return nil, err
		}
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, plan.Assignment{Column: col, Value: v})

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	stmt.Predicate, err = p.parseWhere()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// SELECT * | col[, ...] FROM name [WHERE pred]
func (p *Parser) parseSelect() (*plan.SelectNode, error) {
	p.nextToken()
	stmt := &plan.SelectNode{}

	if p.curTok.Type == lexer.ASTERISK {
		p.nextToken()
	} else {
		cols, err := p.parseIdentifierList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.TableName = name

	stmt.Predicate, err = p.parseWhere()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// DELETE FROM name [WHERE pred]
func (p *Parser) parseDelete() (*plan.DeleteNode, error) {
	p.nextToken()
	if err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	stmt := &plan.DeleteNode{TableName: name}

	stmt.Predicate, err = p.parseWhere()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseWhere parses an optional WHERE col = lit or WHERE col IS NULL
func (p *Parser) parseWhere() (*plan.Predicate, error) {
	if p.curTok.Type != lexer.WHERE {
		return nil, nil
	}
	p.nextToken()

	col, err := p.parseIdentifier("column name")
	if err != nil {
		return nil, err
	}

	switch p.curTok.Type {
	case lexer.EQUALS:
		p.nextToken()
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &plan.Predicate{Column: col, Value: v}, nil
	case lexer.IS:
		p.nextToken()
		if err := p.expect(lexer.NULL); err != nil {
			return nil, err
		}
		return &plan.Predicate{Column: col, Value: value.Null()}, nil
	default:
		return nil, p.unexpected("= or IS NULL")
	}
}

func (p *Parser) parseIdentifierList() ([]string, error) {
	var names []string
	for {
		name, err := p.parseIdentifier("column name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if p.curTok.Type != lexer.COMMA {
			return names, nil
		}
		p.nextToken()
	}
}

func (p *Parser) parseIdentifier(what string) (string, error) {
	if p.curTok.Type != lexer.IDENTIFIER {
		return "", p.unexpected(what)
	}
	name := p.curTok.Literal
	p.nextToken()
	return name, nil
}

// parseLiteral parses [-]NUMBER, 'string' or NULL
func (p *Parser) parseLiteral() (value.Value, error) {
	switch p.curTok.Type {
	case lexer.NULL:
		p.nextToken()
		return value.Null(), nil
	case lexer.STRING:
		s := p.curTok.Literal
		p.nextToken()
		return value.String(s), nil
	case lexer.MINUS, lexer.NUMBER:
		text := ""
		if p.curTok.Type == lexer.MINUS {
			text = "-"
			p.nextToken()
			if p.curTok.Type != lexer.NUMBER {
				return value.Null(), p.unexpected("number")
			}
		}
		text += p.curTok.Literal
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return value.Null(), errors.Wrapf(err, "invalid integer %s at line %d, col %d", text, p.curTok.Line, p.curTok.Column)
		}
		p.nextToken()
		return value.Integer(i), nil
	default:
		return value.Null(), p.unexpected("literal value")
	}
}

func (p *Parser) expect(t lexer.TokenType) error {
	if p.curTok.Type != t {
		return p.unexpected(t.String())
	}
	p.nextToken()
	return nil
}

func (p *Parser) unexpected(want string) error {
	if p.curTok.Type == lexer.EOF {
		return errors.Errorf("expected %s, got end of input", want)
	}
	return errors.Errorf("expected %s, got %s at line %d, col %d", want, p.curTok.Literal, p.curTok.Line, p.curTok.Column)
}
