package render

import (
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/stream"
)

// LoaderKind identifies the placeholder shown while content is pending.
type LoaderKind int

const (
	LoaderThinking LoaderKind = iota
	LoaderFunction
	LoaderSkeleton
	LoaderProducts
)

// SkeletonPlaceholders is the number of placeholder cards shown once a
// tool has returned.
const SkeletonPlaceholders = 3

// Loader describes a placeholder.
type Loader struct {
	Kind         LoaderKind
	Icon         string
	Message      string
	Subtext      string
	Placeholders int
}

func ThinkingLoader() Loader {
	return Loader{Kind: LoaderThinking, Message: "Thinking"}
}

func SkeletonLoader() Loader {
	return Loader{
		Kind:         LoaderSkeleton,
		Icon:         "✨",
		Message:      "Curating results for you",
		Subtext:      "Almost there...",
		Placeholders: SkeletonPlaceholders,
	}
}

func ProductsLoader() Loader {
	return Loader{Kind: LoaderProducts, Message: "Loading products..."}
}

type queryTopic struct {
	keywords []string
	icon     string
	message  string
	subtext  string
}

var queryTopics = []queryTopic{
	{[]string{"speaker", "audio"}, "🔊", "Finding excellent speakers for you", "Checking audio quality and features..."},
	{[]string{"shirt", "tshirt", "t-shirt"}, "👕", "Finding the best t-shirts for you", "Checking styles, materials and sizes..."},
	{[]string{"phone", "mobile"}, "📱", "Searching through our phone collection", "Comparing features and prices..."},
	{[]string{"shoe", "footwear"}, "👟", "Looking for perfect shoes", "Checking comfort and style..."},
	{[]string{"laptop", "computer"}, "💻", "Scanning our tech collection", "Analyzing specifications..."},
}

// DefaultSearchTools are the tool names whose query argument drives the
// loader message.
var DefaultSearchTools = []string{"rag_search_agent"}

// FunctionLoader picks the loader for a tool call. Calls to a search tool
// get a message derived from the query; everything else gets the generic
// catalog message.
func FunctionLoader(call stream.FunctionCall, searchTools []string) Loader {
	generic := Loader{
		Kind:    LoaderFunction,
		Icon:    "🔍",
		Message: "Searching our catalog...",
		Subtext: "This might take a moment",
	}

	if !isSearchTool(call.Name, searchTools) {
		return generic
	}

	query := strings.TrimSpace(call.Arg("request"))
	if query == "" {
		query = strings.TrimSpace(call.Arg("query"))
	}
	if query == "" {
		return generic
	}

	lower := strings.ToLower(query)
	for _, topic := range queryTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				return Loader{Kind: LoaderFunction, Icon: topic.icon, Message: topic.message, Subtext: topic.subtext}
			}
		}
	}

	return Loader{
		Kind:    LoaderFunction,
		Icon:    "🔍",
		Message: "Searching for " + query,
		Subtext: "Finding the best matches...",
	}
}

func isSearchTool(name string, searchTools []string) bool {
	for _, tool := range searchTools {
		if tool == name {
			return true
		}
	}
	return false
}
