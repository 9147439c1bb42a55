package templating

import (
	"maps"
	"time"

	"github.com/byte4ever/postrender/element"
)

// Context is the data one render call reads. The engine only borrows it.
type Context struct {
	// Output names the artifact being rendered in errors, e.g. "index.html".
	Output string

	BlogName    string
	Language    string
	Author      string
	Title       string
	RawPostName string
	Number      int
	PostDate    time.Time

	GlobalData map[string]string
	LocalData  map[string]string

	Tags    []string
	Styles  []element.Style
	Scripts []element.Script
}

// Data looks key up in the post data, then in the blog data.
func (rc *Context) Data(key string) (string, bool) {
	if v, ok := rc.LocalData[key]; ok {
		return v, true
	}

	v, ok := rc.GlobalData[key]

	return v, ok
}

// MergedData returns the union of both data sets, post values winning.
func (rc *Context) MergedData() map[string]string {
	out := make(map[string]string, len(rc.GlobalData)+len(rc.LocalData))
	maps.Copy(out, rc.GlobalData)
	maps.Copy(out, rc.LocalData)

	return out
}

func (rc *Context) outputName() string {
	if rc.Output == "" {
		return "template"
	}

	return rc.Output
}
