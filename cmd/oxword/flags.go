package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/oxword/internal/dictionary"
	"github.com/at-ishikawa/oxword/internal/wordlist"
)

// LevelFlag is a CEFR level flag that also accepts "all".
type LevelFlag dictionary.Level

func (l *LevelFlag) Set(val string) error {
	level, err := dictionary.ParseLevel(val)
	if err != nil {
		return err
	}
	*l = LevelFlag(level)
	return nil
}

func (l LevelFlag) String() string {
	return string(l)
}

func (l *LevelFlag) Type() string {
	return "level"
}

// Level returns the flag value as a dictionary level.
func (l LevelFlag) Level() dictionary.Level {
	return dictionary.Level(l)
}

// PageSizeFlag only accepts the sizes offered by the browser.
type PageSizeFlag int

func (p *PageSizeFlag) Set(val string) error {
	size, err := strconv.Atoi(val)
	if err != nil || !slices.Contains(wordlist.PageSizes, size) {
		return fmt.Errorf("invalid page size: %s. Possible values are %v", val, wordlist.PageSizes)
	}
	*p = PageSizeFlag(size)
	return nil
}

func (p PageSizeFlag) String() string {
	return strconv.Itoa(int(p))
}

func (p *PageSizeFlag) Type() string {
	return "pageSize"
}

var (
	_ pflag.Value = (*LevelFlag)(nil)
	_ pflag.Value = (*PageSizeFlag)(nil)
)
