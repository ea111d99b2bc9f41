// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"reflect"
	"strings"
)

var (
	// debugLibrary controls debugging output from the codec/catalog
	// internals. Since this setting manipulates global state it MUST NOT
	// be toggled in a setting where thread-safety is required.
	debugLibrary = false
	// maxCharsPerLine is the maximum number of characters per line from
	// DbgPrint. Additional characters are truncated.
	maxCharsPerLine = 1000
	// maxValueStrLen is the maximum number of characters output from ValueStr.
	maxValueStrLen = 150
)

// SetDebug turns the package-global debug trace on or off. The ace_ari and
// ace_adm CLI drivers wire this to their -v glog verbosity flag.
func SetDebug(on bool) {
	debugLibrary = on
}

// DbgPrint prints v if debug tracing is enabled. v has the same format as
// Printf. A trailing newline is added to the output.
func DbgPrint(v ...interface{}) {
	if !debugLibrary {
		return
	}
	out := fmt.Sprintf(v[0].(string), v[1:]...)
	if len(out) > maxCharsPerLine {
		out = out[:maxCharsPerLine]
	}
	fmt.Println(globalIndent + out)
}

// DbgErr DbgPrints err and returns it.
func DbgErr(err error) error {
	DbgPrint("ERR: " + err.Error())
	return err
}

// globalIndent is used to control Indent level.
var globalIndent = ""

// Indent increases DbgPrint indent level.
func Indent() {
	if !debugLibrary {
		return
	}
	globalIndent += ". "
}

// Dedent decreases DbgPrint indent level.
func Dedent() {
	if !debugLibrary {
		return
	}
	globalIndent = strings.TrimPrefix(globalIndent, ". ")
}

// ResetIndent sets the indent level to zero.
func ResetIndent() {
	globalIndent = ""
}

// ValueStrDebug returns "<not calculated>" if debug tracing is off.
// Otherwise it is the same as ValueStr. Prefer this over ValueStr in a hot
// path, since ValueStr itself can be the bottleneck for large input.
func ValueStrDebug(value interface{}) string {
	if !debugLibrary {
		return "<not calculated>"
	}
	return ValueStr(value)
}

// ValueStr returns a string representation of value, which may be a value,
// pointer, or struct type.
func ValueStr(value interface{}) string {
	out := valueStrInternal(value)
	if len(out) > maxValueStrLen {
		out = out[:maxValueStrLen] + "..."
	}
	return out
}

func valueStrInternal(value interface{}) string {
	v := reflect.ValueOf(value)
	kind := v.Kind()
	switch kind {
	case reflect.Ptr:
		if v.IsNil() || !v.IsValid() {
			return "nil"
		}
		return strings.Replace(ValueStr(v.Elem().Interface()), ")", " ptr)", -1)
	case reflect.Slice:
		var out string
		for i := 0; i < v.Len(); i++ {
			if i != 0 {
				out += ", "
			}
			out += ValueStr(v.Index(i).Interface())
		}
		return "[ " + out + " ]"
	case reflect.Struct:
		var out string
		for i := 0; i < v.NumField(); i++ {
			if i != 0 {
				out += ", "
			}
			if !v.Field(i).CanInterface() {
				continue
			}
			out += ValueStr(v.Field(i).Interface())
		}
		return "{ " + out + " }"
	}
	out := fmt.Sprintf("%v (%v)", value, kind)
	if len(out) > maxValueStrLen {
		out = out[:maxValueStrLen] + "..."
	}
	return out
}
