package main

import (
	"github.com/spf13/pflag"

	"github.com/davetashner/phishdedup/internal/decision"
	"github.com/davetashner/phishdedup/internal/store"
)

// choiceValue is a pflag.Value restricted to the names accepted by parse.
// It stores the canonical spelling so the value can flow into a config.
type choiceValue struct {
	value string
	typ   string
	parse func(string) (string, error)
}

var _ pflag.Value = (*choiceValue)(nil)

func (c *choiceValue) String() string { return c.value }
func (c *choiceValue) Type() string   { return c.typ }

func (c *choiceValue) Set(s string) error {
	canonical, err := c.parse(s)
	if err != nil {
		return err
	}
	c.value = canonical
	return nil
}

func newPolicyValue() *choiceValue {
	return &choiceValue{typ: "policy", parse: func(s string) (string, error) {
		p, err := decision.ParseSenderPolicy(s)
		if err != nil {
			return "", err
		}
		return p.String(), nil
	}}
}

func newScopeValue() *choiceValue {
	return &choiceValue{typ: "scope", parse: func(s string) (string, error) {
		scope, err := store.ParseStatusScope(s)
		if err != nil {
			return "", err
		}
		return scope.String(), nil
	}}
}
