// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"strings"
)

// Method identifies an elicitation method.
type Method string

const (
	MethodRanking   Method = "ranking"
	MethodDirect    Method = "direct"
	MethodPairwise  Method = "pairwise"
	MethodChurchman Method = "churchman"
)

// Methods lists every supported method in display order.
var Methods = []Method{MethodRanking, MethodPairwise, MethodDirect, MethodChurchman}

// ParseMethod validates a method name
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		names := make([]string, len(Methods))
		for i, known := range Methods {
			names[i] = string(known)
		}
		return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownMethod, s, strings.Join(names, ", "))
	}
	return m, nil
}

func (m Method) Valid() bool {
	switch m {
	case MethodRanking, MethodDirect, MethodPairwise, MethodChurchman:
		return true
	}
	return false
}

// Label returns the human readable method name.
func (m Method) Label() string {
	switch m {
	case MethodRanking:
		return "Ranking (mean rank)"
	case MethodPairwise:
		return "Pairwise comparison"
	case MethodDirect:
		return "Direct scoring"
	case MethodChurchman:
		return "Sequential comparison (Churchman-Ackoff)"
	}
	return string(m)
}

// LowerIsBetter reports whether a smaller aggregate score ranks higher.
func (m Method) LowerIsBetter() bool {
	return m == MethodRanking
}
