package keyword

import "strings"

// TechTerm maps a canonical concept name to the spellings that signal it.
type TechTerm struct {
	Concept  string
	Synonyms []string
}

// Vocabulary holds the curated dictionaries used by an Extractor.
// It is immutable once built.
type Vocabulary struct {
	techTerms []TechTerm
	stopwords map[string]struct{}
}

// NewVocabulary builds a Vocabulary. Tech terms are matched in the given
// order. Stop words are compared case-insensitively.
func NewVocabulary(techTerms []TechTerm, stopwords ...[]string) Vocabulary {
	terms := make([]TechTerm, len(techTerms))
	for i, tt := range techTerms {
		terms[i] = TechTerm{
			Concept:  tt.Concept,
			Synonyms: append([]string(nil), tt.Synonyms...),
		}
	}

	stop := make(map[string]struct{})
	for _, set := range stopwords {
		for _, w := range set {
			stop[strings.ToLower(w)] = struct{}{}
		}
	}

	return Vocabulary{techTerms: terms, stopwords: stop}
}

// TechTerms returns a copy of the tech-term dictionary in match order.
func (v Vocabulary) TechTerms() []TechTerm {
	out := make([]TechTerm, len(v.techTerms))
	copy(out, v.techTerms)
	return out
}

// IsStopword reports whether w is a stop word, ignoring case.
func (v Vocabulary) IsStopword(w string) bool {
	_, ok := v.stopwords[strings.ToLower(w)]
	return ok
}

// DefaultVocabulary returns the curated dictionaries for learning requests.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(defaultTechTerms, chineseStopwords, englishStopwords)
}

var defaultTechTerms = []TechTerm{
	{Concept: "大模型", Synonyms: []string{"大模型", "LLM", "Large Language Model"}},
	{Concept: "内存管理", Synonyms: []string{"内存管理", "Memory Management", "内存优化"}},
	{Concept: "记忆机制", Synonyms: []string{"记忆", "记忆机制", "Memory Mechanism"}},
	{Concept: "神经网络", Synonyms: []string{"神经网络", "Neural Network", "NN"}},
	{Concept: "深度学习", Synonyms: []string{"深度学习", "Deep Learning", "DL"}},
	{Concept: "机器学习", Synonyms: []string{"机器学习", "Machine Learning", "ML"}},
	{Concept: "人工智能", Synonyms: []string{"人工智能", "AI", "Artificial Intelligence"}},
	{Concept: "自然语言处理", Synonyms: []string{"NLP", "自然语言处理", "Natural Language Processing"}},
	{Concept: "注意力机制", Synonyms: []string{"注意力机制", "Attention Mechanism", "Attention"}},
	{Concept: "Transformer", Synonyms: []string{"Transformer", "transformer"}},
	{Concept: "GPT", Synonyms: []string{"GPT", "gpt"}},
	{Concept: "向量数据库", Synonyms: []string{"向量数据库", "Vector Database"}},
	{Concept: "嵌入", Synonyms: []string{"嵌入", "Embedding", "embeddings"}},
	{Concept: "Python", Synonyms: []string{"Python"}},
	{Concept: "数据分析", Synonyms: []string{"数据分析", "Data Analysis"}},
}

var chineseStopwords = []string{
	"的", "了", "在", "是", "我", "有", "和", "就", "不", "人", "都", "一", "一个",
	"上", "也", "很", "到", "说", "要", "去", "你", "会", "着", "没有", "看", "好",
	"自己", "这", "那", "里", "就是", "什么", "怎么", "可以", "这个", "那个",
	"如何", "为什么", "怎样", "学习", "了解", "掌握", "理解", "知道",
}

var englishStopwords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "can", "this", "that", "these",
	"those", "i", "you", "he", "she", "it", "we", "they", "me", "him",
	"her", "us", "them", "my", "your", "his", "its", "our", "their",
	"what", "how", "when", "where", "why", "which", "who", "whom", "whose",
	"learn", "study", "understand", "know", "master",
}
