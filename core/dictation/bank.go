// ABOUTME: Built-in dictation question bank
// ABOUTME: Words, phrases and sentences with Chinese prompts and phonetics

package dictation

import "paperread-app/core/domain"

var bank = []domain.DictationQuestion{
	{Type: domain.QuestionWord, Chinese: "学习", English: "learn", Phonetic: "/lɜːn/"},
	{Type: domain.QuestionWord, Chinese: "技术", English: "technology", Phonetic: "/tekˈnɒlədʒi/"},
	{Type: domain.QuestionWord, Chinese: "创新", English: "innovation", Phonetic: "/ˌɪnəˈveɪʃn/"},
	{Type: domain.QuestionWord, Chinese: "发展", English: "develop", Phonetic: "/dɪˈveləp/"},
	{Type: domain.QuestionWord, Chinese: "设计", English: "design", Phonetic: "/dɪˈzaɪn/"},
	{Type: domain.QuestionWord, Chinese: "商业", English: "business", Phonetic: "/ˈbɪznəs/"},
	{Type: domain.QuestionWord, Chinese: "市场", English: "market", Phonetic: "/ˈmɑːkɪt/"},
	{Type: domain.QuestionWord, Chinese: "环境", English: "environment", Phonetic: "/ɪnˈvaɪrənmənt/"},
	{Type: domain.QuestionWord, Chinese: "可持续的", English: "sustainable", Phonetic: "/səˈsteɪnəbl/"},
	{Type: domain.QuestionWord, Chinese: "知识", English: "knowledge", Phonetic: "/ˈnɒlɪdʒ/"},

	{Type: domain.QuestionPhrase, Chinese: "人工智能", English: "artificial intelligence", Phonetic: "/ˌɑːtɪˈfɪʃl ɪnˈtelɪdʒəns/"},
	{Type: domain.QuestionPhrase, Chinese: "机器学习", English: "machine learning", Phonetic: "/məˈʃiːn ˈlɜːnɪŋ/"},
	{Type: domain.QuestionPhrase, Chinese: "大数据", English: "big data", Phonetic: "/bɪɡ ˈdeɪtə/"},
	{Type: domain.QuestionPhrase, Chinese: "云计算", English: "cloud computing", Phonetic: "/klaʊd kəmˈpjuːtɪŋ/"},
	{Type: domain.QuestionPhrase, Chinese: "物联网", English: "internet of things", Phonetic: "/ˈɪntənet əv θɪŋz/"},
	{Type: domain.QuestionPhrase, Chinese: "可再生能源", English: "renewable energy", Phonetic: "/rɪˈnjuːəbl ˈenədʒi/"},
	{Type: domain.QuestionPhrase, Chinese: "气候变化", English: "climate change", Phonetic: "/ˈklaɪmət tʃeɪndʒ/"},
	{Type: domain.QuestionPhrase, Chinese: "全球化", English: "globalization", Phonetic: "/ˌɡləʊbəlaɪˈzeɪʃn/"},
	{Type: domain.QuestionPhrase, Chinese: "经济增长", English: "economic growth", Phonetic: "/ˌiːkəˈnɒmɪk ɡrəʊθ/"},
	{Type: domain.QuestionPhrase, Chinese: "社会责任", English: "social responsibility", Phonetic: "/ˈsəʊʃl rɪˌspɒnsəˈbɪləti/"},

	{Type: domain.QuestionSentence, Chinese: "学习是一个持续的过程", English: "Learning is a continuous process", Phonetic: "/ˈlɜːnɪŋ ɪz ə kənˈtɪnjuəs ˈprəʊses/"},
	{Type: domain.QuestionSentence, Chinese: "技术改变了我们的生活", English: "Technology has changed our lives", Phonetic: "/tekˈnɒlədʒi hæz tʃeɪndʒd aʊə laɪvz/"},
	{Type: domain.QuestionSentence, Chinese: "创新驱动发展", English: "Innovation drives development", Phonetic: "/ˌɪnəˈveɪʃn draɪvz dɪˈveləpmənt/"},
	{Type: domain.QuestionSentence, Chinese: "保护环境是每个人的责任", English: "Protecting the environment is everyone's responsibility", Phonetic: "/prəˈtektɪŋ ði ɪnˈvaɪrənmənt ɪz ˈevriwʌnz rɪˌspɒnsəˈbɪləti/"},
	{Type: domain.QuestionSentence, Chinese: "教育是成功的关键", English: "Education is the key to success", Phonetic: "/ˌedjuˈkeɪʃn ɪz ðə kiː tuː səkˈses/"},
}

// Bank returns a copy of the built-in questions
func Bank() []domain.DictationQuestion {
	return append([]domain.DictationQuestion(nil), bank...)
}
