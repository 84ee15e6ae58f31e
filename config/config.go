// Package config holds the construction-time option lists used to create
// and open containers and tables.
//
// Options are written as KEY=VALUE pairs. Keys are matched without regard
// to case, values are kept verbatim and the supply order is preserved, so
// prefixed groups such as HEADER_* can be replayed in the order given.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidOption = errors.New("config: invalid option")

type Option struct {
	Key   string
	Value string
}

func (o Option) String() string {
	return o.Key + "=" + o.Value
}

type Options []Option

// Parse reads a list of KEY=VALUE strings.
func Parse(list []string) (Options, error) {
	opts := make(Options, 0, len(list))
	for _, item := range list {
		idx := strings.IndexByte(item, '=')
		if idx <= 0 {
			return nil, fmt.Errorf("%w: %q, expected KEY=VALUE", ErrInvalidOption, item)
		}
		opts = append(opts, Option{Key: strings.TrimSpace(item[:idx]), Value: item[idx+1:]})
	}
	return opts, nil
}

// MustParse is Parse for option lists known at compile time.
func MustParse(list ...string) Options {
	opts, err := Parse(list)
	if err != nil {
		panic(err)
	}
	return opts
}

// Get returns the value of the last option named key.
func (o Options) Get(key string) (string, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if strings.EqualFold(o[i].Key, key) {
			return o[i].Value, true
		}
	}
	return "", false
}

func (o Options) String(key, def string) string {
	if v, ok := o.Get(key); ok {
		return v
	}
	return def
}

func (o Options) Bool(key string, def bool) (bool, error) {
	v, ok := o.Get(key)
	if !ok {
		return def, nil
	}
	b, err := ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
	}
	return b, nil
}

func (o Options) Int(key string, def int) (int, error) {
	v, ok := o.Get(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
	}
	return n, nil
}

// WithPrefix returns the options whose key starts with prefix, with the
// prefix removed from the key. Supply order is kept.
func (o Options) WithPrefix(prefix string) Options {
	var res Options
	for _, opt := range o {
		if len(opt.Key) > len(prefix) && strings.EqualFold(opt.Key[:len(prefix)], prefix) {
			res = append(res, Option{Key: opt.Key[len(prefix):], Value: opt.Value})
		}
	}
	return res
}

// Merge returns o followed by other; values in other win on lookup.
func (o Options) Merge(other Options) Options {
	res := make(Options, 0, len(o)+len(other))
	res = append(res, o...)
	return append(res, other...)
}

// ParseBool accepts the spellings used in option lists: YES/NO, TRUE/FALSE,
// ON/OFF and 1/0.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
