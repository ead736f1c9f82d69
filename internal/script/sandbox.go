package script

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// unsafeGlobals load code from outside the script.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// openSandbox opens the libraries scripts may use and strips anything that
// reaches the file system or loads code.
func openSandbox(L *lua.LState, out io.Writer) {
	// io, os, debug, package and coroutine stay closed.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(printTo(out)))
}

// printTo returns a print that writes its tab-separated arguments to out.
func printTo(out io.Writer) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		if _, err := fmt.Fprintln(out, strings.Join(parts, "\t")); err != nil {
			L.RaiseError("print: %v", err)
		}
		return 0
	}
}
