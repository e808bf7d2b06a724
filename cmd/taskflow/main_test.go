package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanRunWithoutContainer(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "no args opens the board", args: nil, want: false},
		{name: "help flag", args: []string{"--help"}, want: true},
		{name: "short help on subcommand", args: []string{"list", "-h"}, want: true},
		{name: "version flag", args: []string{"--version"}, want: true},
		{name: "help subcommand", args: []string{"help", "new"}, want: true},
		{name: "config template", args: []string{"config", "template"}, want: true},
		{name: "config show", args: []string{"config", "show"}, want: false},
		{name: "task command", args: []string{"new", "--title", "test"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canRunWithoutContainer(tt.args))
		})
	}
}
