package prompt

import "LearningAssistant/internal/domain"

// Template is an opaque, hot-swappable instruction text with placeholders
// for {content}, {title}, {metadata}, and {language}.
type Template struct {
	ID   string
	Text string
}

// templateFiles maps each resource type to its file name inside the
// configured prompt directory.
var templateFiles = map[domain.ResourceType]string{
	domain.ResourceYouTube:     "youtube.txt",
	domain.ResourceBlog:        "blog.txt",
	domain.ResourcePaper:       "paper.txt",
	domain.ResourceSurveyPaper: "survey_paper.txt",
}

const defaultDigestTemplate = `You are a helpful research assistant.
1. Read the following text.
2. Provide a concise summary (approx 3-5 sentences) in {language}.
3. Provide 3-5 key bullet point takeaways in {language}.
4. Provide 2-5 short topic tags.

IMPORTANT: Respond ONLY with valid JSON in the following format (no markdown, no code blocks, just pure JSON):
{
    "summary": "<insert summary here as a single string>",
    "takeaways": ["<point 1>", "<point 2>", "<point 3>"],
    "tags": ["<tag 1>", "<tag 2>"]
}

TITLE: {title}

TEXT TO PROCESS:
{content}`

const defaultPaperTemplate = `You are an expert research-paper reviewer.
Analyze the paper below and respond with plain text in the following sections:

SUMMARY: the core problem, approach, and findings in 4-6 sentences.
KEY POINTS: the main contributions and results, one bullet per line.
TAGS: 3-6 comma-separated topic tags.

PAPER TITLE: {title}

PAPER METADATA:
{metadata}

PAPER CONTENT:
{content}`

const defaultSurveyTemplate = `You are an expert survey-paper analyst.
The paper below is a survey. Respond with plain text in the following sections:

SUMMARY: the survey's scope, the field it maps, and its main conclusions.
KEY POINTS: one bullet per line covering (a) the major research directions it
identifies, (b) its methodology taxonomy, and (c) the open problems it raises.
TAGS: 3-6 comma-separated topic tags.

SURVEY TITLE: {title}

SURVEY METADATA:
{metadata}

SURVEY CONTENT:
{content}`

// builtinTemplates back each resource type when no file is provided.
var builtinTemplates = map[domain.ResourceType]Template{
	domain.ResourceYouTube:     {ID: "builtin/youtube", Text: defaultDigestTemplate},
	domain.ResourceBlog:        {ID: "builtin/blog", Text: defaultDigestTemplate},
	domain.ResourcePaper:       {ID: "builtin/paper", Text: defaultPaperTemplate},
	domain.ResourceSurveyPaper: {ID: "builtin/survey_paper", Text: defaultSurveyTemplate},
}
