// ABOUTME: Built-in vocabulary of the word graph
// ABOUTME: Parts of speech and meanings are in Chinese for the learner

package wordgraph

type link struct {
	word     string
	strength float64
}

type entry struct {
	pos       string
	meaning   string
	frequency int
	related   []link
}

var vocabulary = map[string]entry{
	"learn": {pos: "动词", meaning: "学习，学会", frequency: 156, related: []link{
		{"study", 0.95}, {"education", 0.85}, {"knowledge", 0.75}, {"practice", 0.88},
		{"teach", 0.82}, {"skill", 0.65}, {"training", 0.78}, {"master", 0.55},
	}},
	"study": {pos: "动词/名词", meaning: "学习，研究", frequency: 132, related: []link{
		{"learn", 0.95}, {"research", 0.90}, {"examine", 0.70}, {"analyze", 0.75},
		{"investigate", 0.68}, {"education", 0.85}, {"academic", 0.80},
	}},
	"technology": {pos: "名词", meaning: "技术，科技", frequency: 245, related: []link{
		{"innovation", 0.92}, {"digital", 0.88}, {"computer", 0.85}, {"software", 0.80},
		{"science", 0.75}, {"internet", 0.82}, {"development", 0.70}, {"modern", 0.65},
		{"system", 0.58},
	}},
	"innovation": {pos: "名词", meaning: "创新，革新", frequency: 189, related: []link{
		{"technology", 0.92}, {"creative", 0.88}, {"invention", 0.90}, {"progress", 0.78},
		{"development", 0.82}, {"breakthrough", 0.85}, {"novel", 0.60},
	}},
	"develop": {pos: "动词", meaning: "发展，开发", frequency: 198, related: []link{
		{"create", 0.85}, {"build", 0.88}, {"improve", 0.80}, {"growth", 0.75},
		{"expand", 0.70}, {"design", 0.82}, {"progress", 0.78}, {"evolve", 0.65},
	}},
	"design": {pos: "动词/名词", meaning: "设计", frequency: 167, related: []link{
		{"create", 0.88}, {"plan", 0.85}, {"develop", 0.82}, {"build", 0.78},
		{"architecture", 0.75}, {"style", 0.70}, {"pattern", 0.65}, {"aesthetic", 0.60},
	}},
	"business": {pos: "名词", meaning: "商业，生意", frequency: 287, related: []link{
		{"commerce", 0.92}, {"trade", 0.88}, {"enterprise", 0.85}, {"company", 0.90},
		{"market", 0.95}, {"economy", 0.80}, {"finance", 0.82}, {"industry", 0.78},
		{"management", 0.75},
	}},
	"market": {pos: "名词", meaning: "市场", frequency: 234, related: []link{
		{"business", 0.95}, {"economy", 0.88}, {"trade", 0.90}, {"commerce", 0.85},
		{"customer", 0.78}, {"demand", 0.82}, {"supply", 0.80}, {"sales", 0.75},
	}},
	"environment": {pos: "名词", meaning: "环境", frequency: 212, related: []link{
		{"nature", 0.90}, {"ecology", 0.92}, {"climate", 0.85}, {"sustainable", 0.95},
		{"pollution", 0.78}, {"green", 0.82}, {"conservation", 0.88}, {"earth", 0.75},
	}},
	"sustainable": {pos: "形容词", meaning: "可持续的", frequency: 143, related: []link{
		{"environment", 0.95}, {"green", 0.90}, {"renewable", 0.88}, {"ecology", 0.85},
		{"conservation", 0.82}, {"future", 0.70}, {"responsible", 0.75},
	}},
}
