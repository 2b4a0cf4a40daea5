package script

import (
	"regexp"

	glua "github.com/yuin/gopher-lua"
)

const luaRegexTypeName = "Regex"

// compile returns a cached compiled regex.
func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := e.regexCache.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	e.regexCache.Add(pattern, re)
	return re, nil
}

// registerRegexType registers the Regex userdata type.
func registerRegexType(L *glua.LState) {
	mt := L.NewTypeMetatable(luaRegexTypeName)
	L.SetField(mt, "__index", L.NewFunction(regexIndex))
}

// regexIndex handles method calls on Regex userdata.
func regexIndex(L *glua.LState) int {
	re := L.CheckUserData(1).Value.(*regexp.Regexp)
	method := L.CheckString(2)

	switch method {
	case "match":
		L.Push(L.NewFunction(func(L *glua.LState) int {
			// Accept both re.match(text) and re:match(text)
			text := L.CheckString(L.GetTop())
			pushSubmatches(L, re.FindStringSubmatch(text))
			return 1
		}))
		return 1
	case "pattern":
		L.Push(glua.LString(re.String()))
		return 1
	}

	return 0
}

func pushSubmatches(L *glua.LState, matches []string) {
	if matches == nil {
		L.Push(glua.LNil)
		return
	}
	tbl := L.NewTable()
	for i, m := range matches {
		tbl.RawSetInt(i+1, glua.LString(m))
	}
	L.Push(tbl)
}

// registerRegexFuncs registers portal.regex, portal.match and portal.quote.
func (e *Engine) registerRegexFuncs() {
	registerRegexType(e.L)

	// portal.regex(pattern): compile and return a Regex userdata, or nil, err
	e.L.SetField(e.portalTable, "regex", e.L.NewFunction(func(L *glua.LState) int {
		re, err := e.compile(L.CheckString(1))
		if err != nil {
			L.Push(glua.LNil)
			L.Push(glua.LString(err.Error()))
			return 2
		}
		ud := L.NewUserData()
		ud.Value = re
		L.SetMetatable(ud, L.GetTypeMetatable(luaRegexTypeName))
		L.Push(ud)
		return 1
	}))

	// portal.match(pattern, text): submatch table or nil; raises on a bad pattern
	e.L.SetField(e.portalTable, "match", e.L.NewFunction(func(L *glua.LState) int {
		pattern := L.CheckString(1)
		text := L.CheckString(2)
		re, err := e.compile(pattern)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		pushSubmatches(L, re.FindStringSubmatch(text))
		return 1
	}))

	// portal.quote(text): escape regex metacharacters
	e.L.SetField(e.portalTable, "quote", e.L.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LString(regexp.QuoteMeta(L.CheckString(1))))
		return 1
	}))
}
