package entity

// Kind identifies one filter enumeration dimension
type Kind string

const (
	KindPlatform     Kind = "platform"
	KindPostType     Kind = "post_type"
	KindSentiment    Kind = "sentiment"
	KindRelevance    Kind = "relevance"
	KindRiskScenario Kind = "risk_scenario"
	KindCreatorType  Kind = "creator_type"
	KindPriority     Kind = "priority"
)

// Value represents one stored enumeration row
type Value struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Option is one entry of a filter menu
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AllOptionValue is the synthetic option heading every menu
const AllOptionValue = "all"

// Fixed display-label tables per enumeration kind. Unrecognized codes
// fall back to the stored label, then to the raw code itself, so
// normalization never fails on an unknown code.
var displayLabels = map[Kind]map[string]string{
	KindPlatform: {
		"douyin":      "抖音",
		"xiaohongshu": "小红书",
	},
	KindPostType: {
		"video":      "视频",
		"image_text": "图文",
	},
	KindSentiment: {
		"positive": "正面",
		"neutral":  "中性",
		"negative": "负面",
	},
	KindRelevance: {
		"yes":   "相关",
		"maybe": "疑似相关",
		"no":    "不相关",
	},
	KindCreatorType: {
		"official":   "官方账号",
		"influencer": "达人",
		"consumer":   "素人",
	},
	KindPriority: {
		"high":   "高",
		"medium": "中",
		"low":    "低",
	},
}

// sentimentOrder prescribes the fixed domain ordering of sentiment
// options instead of an alphabetical sort.
var sentimentOrder = map[string]int{
	"positive": 0,
	"neutral":  1,
	"negative": 2,
}

// NormalizeLabel resolves the display label for a stored enumeration
// value: fixed table first, then the stored label, then the raw code.
func NormalizeLabel(kind Kind, value, storedLabel string) string {
	if table, ok := displayLabels[kind]; ok {
		if label, ok := table[value]; ok {
			return label
		}
	}
	if storedLabel != "" {
		return storedLabel
	}
	return value
}

// SentimentRank returns the fixed position of a sentiment value, or a
// rank past all known values for unknown codes.
func SentimentRank(value string) int {
	if rank, ok := sentimentOrder[value]; ok {
		return rank
	}
	return len(sentimentOrder)
}
