package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/esq/internal/dsl"
	"github.com/roach88/esq/internal/registry"
)

// Lint warning codes (W200-W299).
const (
	WarnDeprecatedType = "W200" // type was removed from Elasticsearch
	WarnDeprecatedKey  = "W201" // key is ignored or removed by Elasticsearch
	WarnDroppedEnum    = "W202" // value is outside a soft enum; the builder drops it
)

// Warning is a lint finding. It never stops compilation.
type Warning struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Path, w.Message)
}

// checkEnum warns when v is a string outside the soft enum behind key.
func (run *compilation) checkEnum(at location, entry *registry.Entry, key string, v any) {
	enum, ok := entry.Enums[key]
	if !ok {
		return
	}
	s, ok := dsl.AsString(v)
	if !ok || enum.Contains(s) {
		return
	}
	run.warn(at, WarnDroppedEnum, fmt.Sprintf("%q is not one of %s and will be dropped", s, strings.Join(enum.Values(), "|")))
}
