package match

import (
	"regexp"
	"unicode/utf8"
)

// stopWords are rejected as single-word keywords.
var stopWords = newSet(
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her",
	"she", "or", "an", "will", "my", "one", "all", "would", "there",
	"their", "what", "so", "up", "out", "if", "about", "who", "get",
	"which", "go", "me", "when", "make", "can", "like", "time", "no",
	"just", "him", "know", "take", "people", "into", "year", "your",
	"good", "some", "could", "them", "see", "other", "than", "then",
	"now", "look", "only", "come", "its", "over", "think", "also",
	"back", "after", "use", "two", "how", "our", "work", "first",
	"well", "way", "even", "new", "want", "because", "any", "these",
	"give", "day", "most", "us",
)

// skills is the curated lexicon. Entries are stored normalized, so
// "Node.js" is held as "node js" and lines up with the n-grams the
// extractor produces.
var skills = []string{
	// programming languages
	"JavaScript", "Python", "Java", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Go",
	"Rust", "TypeScript", "SQL", "R", "MATLAB", "Scala", "Perl", "Haskell", "Assembly",
	"Elixir", "Erlang", "Clojure", "Dart", "Lua", "Fortran", "COBOL", "Objective-C",
	"Bash", "PowerShell", "Groovy", "Solidity", "Julia", "OCaml", "Zig",

	// web
	"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Express.js", "Django",
	"Flask", "Spring", "ASP.NET", "Laravel", "Ruby on Rails", "jQuery", "Bootstrap",
	"Tailwind CSS", "WebSocket", "GraphQL", "REST API", "SOAP", "Next.js", "Nuxt.js",
	"Svelte", "Redux", "Webpack", "FastAPI", "Spring Boot", "gRPC", "Microservices",
	"Hibernate", "Ember.js", "Gatsby", "Sass", "Storybook", "Vite",

	// databases
	"MySQL", "PostgreSQL", "MongoDB", "Oracle", "SQL Server", "Redis", "Elasticsearch",
	"Cassandra", "DynamoDB", "Firebase", "Neo4j", "MariaDB", "SQLite", "Snowflake",
	"BigQuery", "ClickHouse", "CockroachDB", "Memcached", "InfluxDB", "Couchbase", "Supabase",

	// cloud and devops
	"AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "Jenkins", "GitLab CI",
	"Travis CI", "Terraform", "Ansible", "Chef", "Puppet", "CircleCI", "Heroku",
	"DigitalOcean", "Nginx", "Apache", "Helm", "Prometheus", "Grafana", "Kafka",
	"RabbitMQ", "GitHub Actions", "ArgoCD", "Pulumi", "Serverless", "Linux",
	"Vercel", "Netlify", "OpenShift", "Istio", "Consul", "Vault", "Datadog", "Splunk",
	"ELK Stack", "Distributed Systems", "System Design", "Embedded Systems",

	// tools and platforms
	"Git", "SVN", "Mercurial", "JIRA", "Confluence", "Trello", "Slack", "Microsoft Teams",
	"Visual Studio Code", "IntelliJ IDEA", "Eclipse", "Xcode", "Android Studio",
	"Postman", "Excel", "Tableau", "Power BI", "Salesforce", "SAP",

	// methodologies and practices
	"Agile", "Scrum", "Kanban", "Waterfall", "TDD", "BDD", "CI/CD", "DevOps", "XP",
	"Lean", "Six Sigma", "SRE", "Pair Programming", "Code Review",

	// AI and data science
	"Machine Learning", "Deep Learning", "Natural Language Processing", "Computer Vision",
	"TensorFlow", "PyTorch", "Keras", "Scikit-learn", "Pandas", "NumPy", "SciPy",
	"Data Mining", "Big Data", "Hadoop", "Spark", "Airflow", "Data Analysis",
	"Data Visualization", "Statistics", "ETL", "Jupyter", "MLOps", "LLM", "Generative AI",
	"Prompt Engineering", "Hugging Face", "LangChain", "Data Engineering", "Data Warehousing",

	// security
	"Cybersecurity", "Penetration Testing", "Ethical Hacking", "Cryptography",
	"Network Security", "Information Security", "Security Auditing", "Vulnerability Assessment",
	"OAuth", "Identity Management", "SOC 2", "GDPR", "Zero Trust",

	// mobile
	"iOS Development", "Android Development", "React Native", "Flutter", "Xamarin",
	"Mobile App Development", "SwiftUI", "Kotlin Multiplatform",

	// soft skills
	"Leadership", "Communication", "Problem Solving", "Team Management",
	"Project Management", "Time Management", "Critical Thinking", "Analytical Skills",
	"Interpersonal Skills", "Presentation Skills", "Negotiation", "Conflict Resolution",
	"Mentoring", "Collaboration", "Adaptability", "Creativity", "Public Speaking",

	// business and management
	"Strategic Planning", "Business Analysis", "Risk Management", "Change Management",
	"Stakeholder Management", "Budget Management", "Resource Planning", "KPI Monitoring",
	"Product Management", "Customer Success", "Vendor Management",

	// design and UX
	"UI Design", "UX Design", "Graphic Design", "Web Design", "Responsive Design",
	"User Research", "Wireframing", "Prototyping", "Adobe Creative Suite", "Sketch",
	"Figma", "InVision", "Accessibility", "Unity", "Unreal Engine",

	// quality assurance
	"Software Testing", "Quality Assurance", "Test Automation", "Manual Testing",
	"Performance Testing", "Security Testing", "Selenium", "JUnit", "TestNG", "Cypress",
	"Playwright", "Jest",

	// certifications
	"AWS Certified", "Microsoft Certified", "Google Certified", "CISSP", "PMP",
	"Scrum Master", "ITIL", "CompTIA", "Cisco Certified", "CKA", "CCNA",
}

// relevantPatterns mark single words that carry job-requirement meaning even
// when they are not skills.
var relevantPatterns = compileAll(
	`years?`,
	`experience`,
	`degree`,
	`certification`,
	`qualified`,
	`skills?`,
	`knowledge`,
	`proficient`,
	`expert`,
	`specialist`,
	`senior`,
	`junior`,
	`lead`,
	`manager`,
	`director`,
	`coordinator`,
	`analyst`,
	`developer`,
	`engineer`,
	`architect`,
	`consultant`,
	`professional`,
	`responsible`,
	`education`,
	`training`,
	`bachelor`,
	`master`,
	`phd`,
	`certified`,
	`license`,
)

// professionalPhrases are multi-word terms kept verbatim.
var professionalPhrases = newSet(
	"machine learning",
	"data science",
	"artificial intelligence",
	"project management",
	"team leader",
	"full stack",
	"front end",
	"back end",
	"software development",
	"business intelligence",
	"quality assurance",
	"user experience",
	"user interface",
	"customer service",
	"problem solving",
	"critical thinking",
	"decision making",
	"time management",
	"communication skills",
	"leadership skills",
	"analytical skills",
	"technical skills",
	"soft skills",
	"years of experience",
	"best practices",
	"continuous improvement",
	"agile methodology",
	"scrum master",
	"product owner",
	"business analyst",
	"system administrator",
	"network security",
	"cloud computing",
	"database management",
	"web development",
	"mobile development",
	"cross functional",
	"team player",
	"self motivated",
	"detail oriented",
	"results driven",
)

type lexiconEntry struct {
	term  string
	runes int
}

var (
	lexiconSet     map[string]struct{}
	lexiconEntries []lexiconEntry
)

func init() {
	lexiconSet = make(map[string]struct{}, len(skills))
	for _, s := range skills {
		n := Normalize(s)
		if n == "" {
			continue
		}
		if _, ok := lexiconSet[n]; ok {
			continue
		}
		lexiconSet[n] = struct{}{}
		lexiconEntries = append(lexiconEntries, lexiconEntry{term: n, runes: utf8.RuneCountInString(n)})
	}
}

// InLexicon reports whether term is a known skill, either exactly or as a
// near-duplicate spelling of one. term must already be normalized.
func InLexicon(term string) bool {
	if _, ok := lexiconSet[term]; ok {
		return true
	}
	n := utf8.RuneCountInString(term)
	for _, e := range lexiconEntries {
		if !withinNearDuplicateLength(n, e.runes) {
			continue
		}
		if Similarity(term, e.term) > NearDuplicate {
			return true
		}
	}
	return false
}

// LexiconSize is the number of distinct normalized skills.
func LexiconSize() int { return len(lexiconEntries) }

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

func isProfessionalPhrase(p string) bool {
	_, ok := professionalPhrases[p]
	return ok
}

func matchesRelevantPattern(w string) bool {
	for _, re := range relevantPatterns {
		if re.MatchString(w) {
			return true
		}
	}
	return false
}

// withinNearDuplicateLength is a cheap bound: when the lengths alone differ by
// more than 15% of the longer one, the edit distance cannot be small enough.
func withinNearDuplicateLength(a, b int) bool {
	longer, diff := a, a-b
	if b > a {
		longer, diff = b, b-a
	}
	if longer == 0 {
		return true
	}
	return 1-float64(diff)/float64(longer) > NearDuplicate
}

func newSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}
