// Command limex is a thin, scriptable CLI around the limex package.
//
// Protocol: one JSON object on stdin, one JSON object on stdout, grounded on
// the line-oriented request/response shape LIMEX's teacher uses for its WASI
// entrypoint.
//
//	stdin:  {
//	          "expression": "3*x + sum{xs[]}",
//	          "variables":   {"x": 2},
//	          "collections": {"xs": [1, 2, 3]}
//	        }
//	stdout: {"result": 12}                    on success
//	        {"error": "<message>"}            on failure (exit code 1)
//
// Usage:
//
//	echo '{"expression":"x+1","variables":{"x":41}}' | limex
package main

import (
	"encoding/json"
	"os"

	"github.com/sandrolain/limex"
	"github.com/sandrolain/limex/pkg/ext/extnumeric"
	"github.com/sandrolain/limex/pkg/handle"
)

type request struct {
	Expression  string             `json:"expression"`
	Variables   map[string]float64 `json:"variables"`
	Collections map[string][]float64 `json:"collections"`
}

type response struct {
	Result *float64 `json:"result,omitempty"`
	Error  string   `json:"error,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	h := handle.New()
	if err := extnumeric.RegisterAll(h); err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	expr, err := limex.Compile(req.Expression, h)
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	varValues := make([]float64, len(expr.Variables()))
	for i, name := range expr.Variables() {
		varValues[i] = req.Variables[name]
	}
	collValues := make([][]float64, len(expr.Collections()))
	for i, name := range expr.Collections() {
		collValues[i] = req.Collections[name]
	}

	result, err := expr.Evaluate(varValues, collValues)
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	writeResponse(response{Result: &result}, 0)
}
