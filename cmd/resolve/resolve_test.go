package resolve_test

import (
	"testing"

	"github.com/cpltasks/cpltasks/cmd/resolve"
	"github.com/cpltasks/cpltasks/mui"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type module map[uint32]string

func (m module) LoadString(id uint32) (string, error) {
	s, ok := m[id]
	if !ok {
		return "", &mui.StringNotFoundError{ID: id}
	}
	return s, nil
}

func (m module) LoadResource(resourceType string, id uint32) ([]byte, error) {
	return nil, errors.New("no resources")
}

func (m module) Close() error {
	return nil
}

type loader map[string]module

func (l loader) Open(path string) (mui.Module, error) {
	m, ok := l[path]
	if !ok {
		return nil, errors.Errorf("%s not found", path)
	}
	return m, nil
}

func Test_Do(t *testing.T) {
	resolver := &mui.Resolver{
		Loader: loader{
			`C:\Windows\system32\shell32.dll`: {24231: "Change your password"},
		},
		Environment: mui.NewEnvironment([]string{`SYSTEMROOT=C:\Windows`}),
	}

	res, err := resolve.Do(resolver, `@%SystemRoot%\system32\shell32.dll,-24231`)
	require.NoError(t, err)
	assert.EqualValues(t, `C:\Windows\system32\shell32.dll`, res.Module)
	assert.EqualValues(t, 24231, res.ID)
	assert.EqualValues(t, "Change your password", res.Value)

	_, err = resolve.Do(resolver, `shell32.dll,-24231`)
	assert.True(t, mui.IsMalformedReference(err))

	_, err = resolve.Do(resolver, `@%SystemRoot%\system32\shell32.dll,-1`)
	assert.True(t, mui.IsStringNotFound(err))
}
