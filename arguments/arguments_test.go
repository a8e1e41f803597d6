package arguments

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/justjake/cc-wrapper/logging"
)

// rawArgv builds a nil-terminated C argv the way a caller of execve would.
func rawArgv(t *testing.T, args ...string) []*byte {
	t.Helper()
	argv := make([]*byte, 0, len(args)+1)
	for _, arg := range args {
		p, err := unix.BytePtrFromString(arg)
		require.NoError(t, err)
		argv = append(argv, p)
	}
	return append(argv, nil)
}

// readArgv reads a nil-terminated C argv back into Go strings.
func readArgv(t *testing.T, argv []*byte) []string {
	t.Helper()
	require.NotEmpty(t, argv, "argv has at least the sentinel")
	require.Nil(t, argv[len(argv)-1], "argv is nil-terminated")
	out := []string{}
	for _, p := range argv[:len(argv)-1] {
		require.NotNil(t, p, "only the sentinel may be nil")
		out = append(out, unix.BytePtrToString(p))
	}
	return out
}

func assertArgs(t *testing.T, want, got []string) {
	t.Helper()
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("argv mismatch:\n%s", pretty.Sprint(diff))
	}
}

func TestFromArrayRoundTrip(t *testing.T) {
	cases := [][]string{
		{},
		{"cc"},
		{"/usr/bin/gcc", "-c", "main.c", "-o", "main.o"},
		{"cc", "", "-c", "", "-c"},
		{"clang", "-DMSG=hello world", "it's", "ünïcödé"},
	}

	for _, args := range cases {
		list, err := FromArray(rawArgv(t, args...))
		require.NoError(t, err)

		assert.Equal(t, len(args), list.Len())
		assertArgs(t, args, readArgv(t, list.Array()))
		assertArgs(t, args, list.Strings())
		for i, arg := range args {
			assert.Equal(t, arg, list.Get(i))
		}
		list.Free()
	}
}

func TestFromArraySentinelOnly(t *testing.T) {
	list, err := FromArray([]*byte{nil})
	require.NoError(t, err)
	defer list.Free()

	assert.Equal(t, 0, list.Len())
	assert.Equal(t, []*byte{nil}, list.Array())
}

func TestFromArrayStopsAtFirstNil(t *testing.T) {
	argv := rawArgv(t, "cc", "-c")
	after, err := unix.BytePtrFromString("ignored")
	require.NoError(t, err)
	argv = append(argv, after, nil)

	list, err := FromArray(argv)
	require.NoError(t, err)
	defer list.Free()

	assertArgs(t, []string{"cc", "-c"}, list.Strings())
}

func TestFromArrayWithoutSentinel(t *testing.T) {
	argv := rawArgv(t, "cc", "-E")
	list, err := FromArray(argv[:2])
	require.NoError(t, err)
	defer list.Free()

	assertArgs(t, []string{"cc", "-E"}, readArgv(t, list.Array()))
}

func TestFromArrayDoesNotAliasInput(t *testing.T) {
	argv := rawArgv(t, "gcc", "-O2")
	list, err := FromArray(argv)
	require.NoError(t, err)
	defer list.Free()

	view := list.Array()
	for i := range argv[:2] {
		assert.NotSame(t, argv[i], view[i])
	}

	// Scribble over the caller's first string.
	*argv[0] = 'X'
	assert.Equal(t, "gcc", list.Get(0))
}

func TestFromArrayLimits(t *testing.T) {
	argv := rawArgv(t, "cc", "-c", "main.c")

	_, err := FromArray(argv, WithMaxArgs(2))
	assert.True(t, errors.Is(err, ErrAllocation), "got %v", err)

	_, err = FromArray(argv, WithMaxBytes(pointerSize*2+len("cc")+1))
	assert.True(t, errors.Is(err, ErrAllocation), "got %v", err)

	list, err := FromArray(argv, WithMaxArgs(3), WithMaxBytes(1<<20))
	require.NoError(t, err)
	list.Free()
}

func TestFromStrings(t *testing.T) {
	list, err := FromStrings([]string{"cc", "-c", "a b.c"})
	require.NoError(t, err)
	defer list.Free()

	assertArgs(t, []string{"cc", "-c", "a b.c"}, readArgv(t, list.Array()))

	_, err = FromStrings([]string{"cc", "bad\x00arg"})
	assert.True(t, errors.Is(err, ErrEmbeddedNUL), "got %v", err)

	_, err = FromStrings([]string{"a", "b", "c"}, WithMaxArgs(2))
	assert.True(t, errors.Is(err, ErrAllocation), "got %v", err)
}

func TestArrayBorrowsWithoutCopying(t *testing.T) {
	list, err := FromStrings([]string{"cc", "-c"})
	require.NoError(t, err)
	defer list.Free()

	first := list.Array()
	second := list.Array()
	assert.Same(t, &first[0], &second[0], "repeated borrows share one view")
	assert.Same(t, first[0], second[0])
}

func TestArrayCopyIsIndependent(t *testing.T) {
	list, err := FromStrings([]string{"gcc", "-c", "main.c"})
	require.NoError(t, err)

	cp, err := list.ArrayCopy()
	require.NoError(t, err)
	defer cp.Free()

	view := list.Array()
	copied := cp.Array()
	assertArgs(t, readArgv(t, view), readArgv(t, copied))
	assert.Equal(t, list.Len(), cp.Len())
	for i := 0; i < list.Len(); i++ {
		assert.NotSame(t, view[i], copied[i], "element %d shares storage", i)
	}

	require.NoError(t, list.Set(0, "clang"))
	require.NoError(t, list.Append("-O2"))
	assertArgs(t, []string{"gcc", "-c", "main.c"}, cp.Strings())

	list.Free()
	assertArgs(t, []string{"gcc", "-c", "main.c"}, readArgv(t, cp.Array()))
}

func TestFreeingCopyLeavesSource(t *testing.T) {
	list, err := FromStrings([]string{"cc", "-o", "out"})
	require.NoError(t, err)
	defer list.Free()

	cp, err := list.ArrayCopy()
	require.NoError(t, err)
	cp.Free()

	assertArgs(t, []string{"cc", "-o", "out"}, readArgv(t, list.Array()))
	assert.Panics(t, func() { cp.Free() }, "double free of copy")
	assert.Panics(t, func() { cp.Array() }, "use of freed copy")
}

func TestCopyIsMutable(t *testing.T) {
	list, err := FromStrings([]string{"cc", "-g", "x.c"})
	require.NoError(t, err)
	defer list.Free()

	cp, err := list.ArrayCopy()
	require.NoError(t, err)
	defer cp.Free()

	// Drop -g the way a caller rewriting argv before exec would.
	raw := cp.Array()
	raw = append(raw[:1], raw[2:]...)
	assertArgs(t, []string{"cc", "x.c"}, readArgv(t, raw))
	assertArgs(t, []string{"cc", "-g", "x.c"}, list.Strings())
}

func TestArrayCopyLimits(t *testing.T) {
	list, err := FromStrings([]string{"cc", "-c", "main.c"})
	require.NoError(t, err)
	defer list.Free()

	cp, err := list.ArrayCopy(WithMaxArgs(2))
	assert.Nil(t, cp)
	assert.True(t, errors.Is(err, ErrAllocation), "got %v", err)
	assert.Equal(t, 3, list.Len(), "source untouched by failed copy")
}

func TestSetAndAppend(t *testing.T) {
	list, err := FromStrings([]string{"/usr/bin/gcc", "-c"})
	require.NoError(t, err)
	defer list.Free()

	before := list.Array()
	require.NoError(t, list.Append("main.c"))
	require.NoError(t, list.Set(0, "gcc"))

	assertArgs(t, []string{"gcc", "-c", "main.c"}, readArgv(t, list.Array()))
	assert.Len(t, before, 3, "old view keeps its length")
	assert.Nil(t, before[2], "old view keeps its terminator")

	assert.True(t, errors.Is(list.Set(1, "a\x00b"), ErrEmbeddedNUL))
	assert.True(t, errors.Is(list.Append("a\x00b"), ErrEmbeddedNUL))
	assert.Panics(t, func() { _ = list.Set(7, "x") }, "out of range panics")
	assert.Panics(t, func() { _ = list.Set(-1, "x") }, "out of range panics")
	assertArgs(t, []string{"gcc", "-c", "main.c"}, list.Strings())
}

func TestAppendRespectsLimits(t *testing.T) {
	list, err := FromStrings([]string{"cc"}, WithMaxArgs(1))
	require.NoError(t, err)
	defer list.Free()

	err = list.Append("-c")
	assert.True(t, errors.Is(err, ErrAllocation), "got %v", err)
	assertArgs(t, []string{"cc"}, readArgv(t, list.Array()))
}

func TestFree(t *testing.T) {
	list, err := FromStrings([]string{"cc", "-c"})
	require.NoError(t, err)
	view := list.Array()

	list.Free()

	assert.Equal(t, []*byte{nil, nil, nil}, view, "borrowed view is cleared")
	assert.Equal(t, "<freed>", list.String())
	assert.Panics(t, func() { list.Free() }, "double free")
	assert.Panics(t, func() { list.Array() })
	assert.Panics(t, func() { list.Len() })
	assert.Panics(t, func() { _, _ = list.ArrayCopy() })
}

func TestString(t *testing.T) {
	list, err := FromStrings([]string{"cc", "-DMSG=hello world", ""})
	require.NoError(t, err)
	defer list.Free()

	assert.Equal(t, `cc '-DMSG=hello world' ''`, list.String())
}

func TestPrint(t *testing.T) {
	list, err := FromStrings([]string{"cc", "-c", "a b.c"})
	require.NoError(t, err)
	defer list.Free()

	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.DebugLevel, Output: &buf})
	list.Print(logger, logging.InfoLevel)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)

	var records []map[string]interface{}
	for _, line := range lines {
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &record))
		assert.Equal(t, "info", record["level"])
		records = append(records, record)
	}

	for i, arg := range []string{"cc", "-c", "a b.c"} {
		assert.Equal(t, float64(i), records[i]["index"])
		assert.Equal(t, arg, records[i]["arg"])
	}
	assert.Equal(t, float64(3), records[3]["argc"])
	assert.Equal(t, `cc -c 'a b.c'`, records[3]["command"])
	assertArgs(t, []string{"cc", "-c", "a b.c"}, list.Strings())
}

func TestPrintBelowLevel(t *testing.T) {
	list, err := FromStrings([]string{"cc"})
	require.NoError(t, err)
	defer list.Free()

	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.WarnLevel, Output: &buf})
	list.Print(logger, logging.DebugLevel)
	assert.Empty(t, buf.String())
}
