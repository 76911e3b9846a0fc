// Package sas reads planning tasks in the SAS/FDR textual format produced by
// Fast Downward's translator. The format is line oriented: a file is a
// sequence of begin_X/end_X sections, tokens are whitespace separated and
// integers are decimal. Blank lines inside a section are ignored.
package sas

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseError is a positioned diagnostic for a malformed task file.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("sas: line %d: %s", e.Line, e.Message)
	}
	return "sas: " + e.Message
}

func errorf(line int, format string, args ...interface{}) error {
	return &ParseError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// rawLine is a non-blank line together with its position in the file.
type rawLine struct {
	text string
	line int
}

// sectionNames maps a begin_X token to its section name.
var sectionNames = map[string]string{
	"begin_version":  "version",
	"begin_metric":   "metric",
	"begin_variable": "variable",
	"begin_state":    "state",
	"begin_goal":     "goal",
	"begin_operator": "operator",
}

// ParseFile reads and parses the task file at path.
func ParseFile(path string) (*Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sas: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a complete SAS task from r. It returns the first malformed
// construct as a *ParseError.
func Parse(r io.Reader) (*Task, error) {
	task := &Task{Version: -1, Metric: -1}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""   // current section name, "" between sections
	openedAt := 0   // line the current section was opened on
	var body []rawLine

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if name, ok := sectionNames[text]; ok {
			if section != "" {
				return nil, errorf(lineNo, "%s inside unterminated %s section", text, section)
			}
			section = name
			openedAt = lineNo
			body = body[:0]
			continue
		}

		if strings.HasPrefix(text, "end_") {
			name := strings.TrimPrefix(text, "end_")
			if section == "" {
				return nil, errorf(lineNo, "%s without matching begin_%s", text, name)
			}
			if name != section {
				return nil, errorf(lineNo, "end_%s closes a %s section", name, section)
			}
			if err := decodeSection(task, section, body); err != nil {
				return nil, err
			}
			section = ""
			continue
		}

		if section == "" {
			return nil, errorf(lineNo, "unexpected content outside any section: %q", text)
		}
		body = append(body, rawLine{text: text, line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sas: %w", err)
	}
	if section != "" {
		return nil, errorf(openedAt, "unterminated %s section", section)
	}
	if task.Version < 0 {
		return nil, errorf(lineNo, "missing version section")
	}
	return task, nil
}

func decodeSection(task *Task, section string, body []rawLine) error {
	switch section {
	case "version":
		v, err := singleInt(body, "version")
		if err != nil {
			return err
		}
		task.Version = v
	case "metric":
		v, err := singleInt(body, "metric")
		if err != nil {
			return err
		}
		task.Metric = v
	case "variable":
		v, err := decodeVariable(body)
		if err != nil {
			return err
		}
		task.Variables = append(task.Variables, v)
	case "state":
		for _, rl := range body {
			for _, tok := range strings.Fields(rl.text) {
				n, err := atoi(tok, rl.line)
				if err != nil {
					return err
				}
				task.Init = append(task.Init, n)
			}
		}
	case "goal":
		for _, rl := range body {
			fields := strings.Fields(rl.text)
			if len(fields) == 1 {
				// Leading pair-count line; the pairs speak for themselves.
				continue
			}
			if len(fields) != 2 {
				return errorf(rl.line, "goal entry needs a variable and a value, got %q", rl.text)
			}
			c, err := decodeCondition(fields, rl.line)
			if err != nil {
				return err
			}
			task.Goal = append(task.Goal, c)
		}
	case "operator":
		op, err := decodeOperator(body)
		if err != nil {
			return err
		}
		task.Operators = append(task.Operators, op)
	}
	return nil
}

func decodeVariable(body []rawLine) (Variable, error) {
	if len(body) < 2 {
		line := 0
		if len(body) > 0 {
			line = body[0].line
		}
		return Variable{}, errorf(line, "variable section needs a name and a domain size")
	}
	v := Variable{Name: body[0].text}

	// The domain size is the last token of the second line.
	fields := strings.Fields(body[1].text)
	size, err := atoi(fields[len(fields)-1], body[1].line)
	if err != nil {
		return Variable{}, err
	}
	if size < 1 {
		return Variable{}, errorf(body[1].line, "variable %s has domain size %d", v.Name, size)
	}
	v.Range = size
	for _, rl := range body[2:] {
		v.Atoms = append(v.Atoms, rl.text)
	}
	return v, nil
}

func decodeOperator(body []rawLine) (Operator, error) {
	cur := cursor{body: body}

	name, err := cur.next("operator name")
	if err != nil {
		return Operator{}, err
	}
	op := Operator{Name: name.text}

	nPrevail, err := cur.count("prevail condition count")
	if err != nil {
		return Operator{}, err
	}
	for i := 0; i < nPrevail; i++ {
		rl, err := cur.next("prevail condition")
		if err != nil {
			return Operator{}, err
		}
		fields := strings.Fields(rl.text)
		if len(fields) != 2 {
			return Operator{}, errorf(rl.line, "prevail condition needs a variable and a value, got %q", rl.text)
		}
		c, err := decodeCondition(fields, rl.line)
		if err != nil {
			return Operator{}, err
		}
		op.Prevail = append(op.Prevail, c)
	}

	nEffects, err := cur.count("effect count")
	if err != nil {
		return Operator{}, err
	}
	for i := 0; i < nEffects; i++ {
		rl, err := cur.next("effect")
		if err != nil {
			return Operator{}, err
		}
		fields := strings.Fields(rl.text)
		if len(fields) < 3 {
			return Operator{}, errorf(rl.line, "effect needs at least variable, pre and post values, got %q", rl.text)
		}
		// Only the first three fields carry meaning here.
		var nums [3]int
		for j := 0; j < 3; j++ {
			n, err := atoi(fields[j], rl.line)
			if err != nil {
				return Operator{}, err
			}
			nums[j] = n
		}
		op.Effects = append(op.Effects, Effect{Var: nums[0], Pre: nums[1], Post: nums[2]})
	}

	costLine, err := cur.next("operator cost")
	if err != nil {
		return Operator{}, err
	}
	cost, err := atoi(costLine.text, costLine.line)
	if err != nil {
		return Operator{}, err
	}
	op.Cost = int64(cost)

	if rest := cur.remaining(); rest > 0 {
		return Operator{}, errorf(costLine.line, "operator %s has %d trailing lines", op.Name, rest)
	}
	return op, nil
}

// cursor steps through the buffered lines of one section.
type cursor struct {
	body []rawLine
	pos  int
	last int
}

func (c *cursor) next(what string) (rawLine, error) {
	if c.pos >= len(c.body) {
		return rawLine{}, errorf(c.last, "truncated operator section: missing %s", what)
	}
	rl := c.body[c.pos]
	c.pos++
	c.last = rl.line
	return rl, nil
}

func (c *cursor) count(what string) (int, error) {
	rl, err := c.next(what)
	if err != nil {
		return 0, err
	}
	n, err := atoi(rl.text, rl.line)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errorf(rl.line, "%s is negative", what)
	}
	return n, nil
}

func (c *cursor) remaining() int {
	return len(c.body) - c.pos
}

func decodeCondition(fields []string, line int) (Condition, error) {
	v, err := atoi(fields[0], line)
	if err != nil {
		return Condition{}, err
	}
	val, err := atoi(fields[1], line)
	if err != nil {
		return Condition{}, err
	}
	return Condition{Var: v, Val: val}, nil
}

func singleInt(body []rawLine, what string) (int, error) {
	if len(body) == 0 {
		return 0, errorf(0, "empty %s section", what)
	}
	return atoi(body[0].text, body[0].line)
}

func atoi(tok string, line int) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errorf(line, "expected an integer, got %q", tok)
	}
	return n, nil
}
