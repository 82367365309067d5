package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cqroot/prompt"
	"github.com/samber/lo"

	"sfr-epg/tv"
)

type Answer string

const (
	Yes  Answer = "yes"
	No   Answer = "no"
	All  Answer = "all"
	None Answer = "none"
)

// Answers is the fixed answer set, in prompt order.
var Answers = []Answer{Yes, No, All, None}

func answerList() string {
	return strings.Join(lo.Map(Answers, func(a Answer, _ int) string { return string(a) }), ",")
}

// Asker asks whether a channel should be grabbed.
type Asker interface {
	Ask(displayName string) (Answer, error)
}

// LineAsker reads answers line by line, as XMLTV grabbers traditionally do.
// An empty answer means No; anything outside Answers is asked again.
type LineAsker struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLineAsker(in io.Reader, out io.Writer) *LineAsker {
	return &LineAsker{in: bufio.NewReader(in), out: out}
}

func (a *LineAsker) Ask(displayName string) (Answer, error) {
	for {
		fmt.Fprintf(a.out, "%s [%s (default=no)] ", displayName, answerList())
		line, err := a.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		answer := Answer(strings.TrimSpace(line))
		if answer == "" {
			return No, nil
		}
		if lo.Contains(Answers, answer) {
			return answer, nil
		}
		fmt.Fprintf(a.out, "invalid response, please choose one of %s\n", answerList())
	}
}

// PromptAsker shows a terminal choice list for every channel.
type PromptAsker struct{}

func (PromptAsker) Ask(displayName string) (Answer, error) {
	// No first so that it is the preselected entry.
	choices := []string{string(No), string(Yes), string(All), string(None)}
	choice, err := prompt.New().Ask(displayName).Choose(choices)
	if err != nil {
		return "", err
	}
	return Answer(choice), nil
}

// Selector walks the channel catalog and collects the channels to grab. "all" and
// "none" answer for the current channel and every remaining one.
type Selector struct {
	Asker Asker
	Out   io.Writer
}

func (s *Selector) Select(channels []tv.Channel) ([]string, error) {
	var (
		ids        []string
		selectAll  bool
		selectNone bool
	)
	fmt.Fprintln(s.Out, "Select the channels that you want to receive data for.")
	for _, ch := range channels {
		answer := No
		if !selectAll && !selectNone {
			a, err := s.Asker.Ask(ch.DisplayName)
			if err != nil {
				return nil, fmt.Errorf("select %s: %w", ch.XMLTVID, err)
			}
			answer = a
			selectAll = answer == All
			selectNone = answer == None
		}
		if selectAll || answer == Yes {
			ids = append(ids, ch.XMLTVID)
		}
		if selectAll {
			fmt.Fprintf(s.Out, "%s yes\n", ch.DisplayName)
		} else if selectNone {
			fmt.Fprintf(s.Out, "%s no\n", ch.DisplayName)
		}
	}
	return ids, nil
}
