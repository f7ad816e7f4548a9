/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package workload

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dop251/goja"
)

// ScriptPatternName is the pattern name that selects a Script.
const ScriptPatternName = "script"

// DefaultScriptTimeout bounds each call to a script's render
// function.
var DefaultScriptTimeout = time.Second

// Script is a Pattern implemented in ECMAScript.
//
// The source must define a function render(size, rand) that returns
// a string.  The rand argument is a function that returns a number
// in [0,1).  For example:
//
//	function render(size, rand) {
//	  var s = "";
//	  for (var i = 0; i < size; i++) s += rand() < 0.5 ? "x" : "=";
//	  return s;
//	}
//
// See https://github.com/dop251/goja.
type Script struct {
	Timeout time.Duration

	src     string
	program *goja.Program
}

// NewScript compiles the source.
func NewScript(src string) (*Script, error) {
	p, err := goja.Compile("pattern", src, true)
	if err != nil {
		return nil, &InvalidSpec{
			Field:   "script",
			Problem: err.Error(),
		}
	}
	return &Script{
		Timeout: DefaultScriptTimeout,
		src:     src,
		program: p,
	}, nil
}

func (s *Script) Name() string {
	return ScriptPatternName
}

// Render runs the script in a fresh runtime.
//
// If the script doesn't finish within the Timeout (or the context is
// done first), Render returns Interrupted.
func (s *Script) Render(ctx context.Context, size int, rng *rand.Rand) (string, error) {
	o := goja.New()
	random := func() float64 {
		return rng.Float64()
	}

	ictx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	go func() {
		<-ictx.Done()
		// If cancel() happens after the run returns, the
		// interrupt is harmless.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := s.run(o, size, random)
	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return "", Interrupted
		}
		return "", err
	}
	return v, nil
}

func (s *Script) run(o *goja.Runtime, size int, random func() float64) (string, error) {
	if _, err := o.RunProgram(s.program); err != nil {
		return "", err
	}
	render, is := goja.AssertFunction(o.Get("render"))
	if !is {
		return "", fmt.Errorf("script doesn't define a render function")
	}
	v, err := render(goja.Undefined(), o.ToValue(size), o.ToValue(random))
	if err != nil {
		return "", err
	}
	switch vv := v.Export().(type) {
	case string:
		return vv, nil
	default:
		return "", fmt.Errorf("render returned %#v (%T), not a string", vv, vv)
	}
}
