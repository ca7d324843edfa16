package extract

import (
	"strconv"
	"strings"
)

// DefaultRouteKey is the loaderData entry for the video page route.
const DefaultRouteKey = "video_(id)/page"

// Step is one hop of a Path: an object key or an array index.
type Step struct {
	key      string
	index    int
	isIndex  bool
	emptyErr error
}

// Key selects an object member.
func Key(name string) Step { return Step{key: name} }

// Index selects an array element.
func Index(i int) Step { return Step{index: i, isIndex: true} }

// OrEmpty makes a key step fail with err, instead of a SchemaError, when the
// member is absent, null or an empty array.
func (s Step) OrEmpty(err error) Step {
	s.emptyErr = err
	return s
}

func (s Step) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

// Path is an ordered list of steps from the document root to a string value.
// Site schema changes are absorbed by editing the Path, not the walker.
type Path []Step

func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 && !s.isIndex {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// DefaultPath walks to the first play URL of the first item:
// loaderData.<routeKey>.videoInfoRes.item_list[0].video.play_addr.url_list[0]
func DefaultPath(routeKey string) Path {
	if routeKey == "" {
		routeKey = DefaultRouteKey
	}
	return Path{
		Key("loaderData"),
		Key(routeKey),
		Key("videoInfoRes"),
		Key("item_list").OrEmpty(ErrEmptyItemList),
		Index(0),
		Key("video"),
		Key("play_addr"),
		Key("url_list"),
		Index(0),
	}
}
