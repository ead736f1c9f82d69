package script

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/internal/app"
)

// Editor is the session a script drives. *app.Application implements it.
type Editor interface {
	HandleName(ctx context.Context, name string) error
	Type(s string) error
	Open(ctx context.Context, path string) (*app.View, error)
	Save(ctx context.Context) error
	SaveAs(ctx context.Context, path string) error
	Split() (*app.View, error)
	CloseView(force bool) error
	Views() []*app.View
	Focused() (*app.View, error)
	FocusIndex() int
	Focus(i int) error
}

var _ Editor = (*app.Application)(nil)

// install registers the editor table.
func (r *Runner) install() {
	mod := r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		"action":     r.action,
		"type":       r.typeText,
		"undo":       r.named("undo"),
		"redo":       r.named("redo"),
		"text":       r.text,
		"path":       r.path,
		"selections": r.selections,
		"mode":       r.mode,
		"open":       r.open,
		"save":       r.save,
		"save_as":    r.saveAs,
		"split":      r.split,
		"close":      r.closeView,
		"views":      r.views,
		"current":    r.current,
		"focus":      r.focus,
	})
	r.L.SetGlobal("editor", mod)
}

// fail stops the script with err. Run reports err itself rather than its
// Lua rendering.
func (r *Runner) fail(L *lua.LState, err error) int {
	r.failure = err
	L.RaiseError("%s", err.Error())
	return 0
}

func (r *Runner) action(L *lua.LState) int {
	name := L.CheckString(1)
	r.logger.Debug("action %s", name)
	if err := r.editor.HandleName(r.ctx, name); err != nil {
		return r.fail(L, err)
	}
	return 0
}

func (r *Runner) named(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		r.logger.Debug("action %s", name)
		if err := r.editor.HandleName(r.ctx, name); err != nil {
			return r.fail(L, err)
		}
		return 0
	}
}

func (r *Runner) typeText(L *lua.LState) int {
	if err := r.editor.Type(L.CheckString(1)); err != nil {
		return r.fail(L, err)
	}
	return 0
}

func (r *Runner) focused(L *lua.LState) *app.View {
	v, err := r.editor.Focused()
	if err != nil {
		r.fail(L, err)
		return nil
	}
	return v
}

func (r *Runner) text(L *lua.LState) int {
	L.Push(lua.LString(r.focused(L).Text()))
	return 1
}

func (r *Runner) path(L *lua.LState) int {
	L.Push(lua.LString(r.focused(L).Path()))
	return 1
}

func (r *Runner) mode(L *lua.LState) int {
	L.Push(lua.LString(r.focused(L).Mode().String()))
	return 1
}

func (r *Runner) selections(L *lua.LState) int {
	sels := r.focused(L).Selections()
	tbl := L.CreateTable(len(sels), 0)
	for _, sel := range sels {
		s := L.CreateTable(0, 3)
		s.RawSetString("primary", lua.LNumber(sel.Primary))
		s.RawSetString("secondary", lua.LNumber(sel.Secondary))
		s.RawSetString("offset", lua.LNumber(sel.Offset))
		tbl.Append(s)
	}
	L.Push(tbl)
	return 1
}

func (r *Runner) open(L *lua.LState) int {
	path := L.CheckString(1)
	r.logger.WithField("path", path).Debug("open")
	if _, err := r.editor.Open(r.ctx, path); err != nil {
		return r.fail(L, err)
	}
	return 0
}

func (r *Runner) save(L *lua.LState) int {
	if err := r.editor.Save(r.ctx); err != nil {
		return r.fail(L, err)
	}
	return 0
}

func (r *Runner) saveAs(L *lua.LState) int {
	if err := r.editor.SaveAs(r.ctx, L.CheckString(1)); err != nil {
		return r.fail(L, err)
	}
	return 0
}

func (r *Runner) split(L *lua.LState) int {
	if _, err := r.editor.Split(); err != nil {
		return r.fail(L, err)
	}
	return 0
}

func (r *Runner) closeView(L *lua.LState) int {
	if err := r.editor.CloseView(L.OptBool(1, false)); err != nil {
		return r.fail(L, err)
	}
	return 0
}

func (r *Runner) views(L *lua.LState) int {
	views := r.editor.Views()
	tbl := L.CreateTable(len(views), 0)
	for _, v := range views {
		tbl.Append(lua.LString(v.Name()))
	}
	L.Push(tbl)
	return 1
}

func (r *Runner) current(L *lua.LState) int {
	L.Push(lua.LNumber(r.editor.FocusIndex() + 1))
	return 1
}

func (r *Runner) focus(L *lua.LState) int {
	if err := r.editor.Focus(L.CheckInt(1) - 1); err != nil {
		return r.fail(L, err)
	}
	return 0
}
