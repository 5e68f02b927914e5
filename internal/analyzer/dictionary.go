package analyzer

// Term is one weighted vocabulary entry. Advanced terms count toward the
// co-occurrence multiplier.
type Term struct {
	Name     string  `yaml:"name"`
	Weight   float64 `yaml:"weight"`
	Advanced bool    `yaml:"advanced,omitempty"`
}

// PatternRule is a weighted structural pattern (regular expression).
type PatternRule struct {
	Name   string  `yaml:"name"`
	Expr   string  `yaml:"expr"`
	Weight float64 `yaml:"weight"`
}

// ArchBonus adds fixed points when an architecture keyword matches. Bonuses
// are additive; several can apply to the same requirement.
type ArchBonus struct {
	Name   string  `yaml:"name"`
	Expr   string  `yaml:"expr"`
	Points float64 `yaml:"points"`
}

// FlagRule names a requirement trait detected by a keyword expression.
type FlagRule struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// Dictionary is the static weighted vocabulary the analyzer scans with.
// It is data, not code: a caller may load a replacement from YAML.
type Dictionary struct {
	Terms            []Term        `yaml:"terms"`
	Patterns         []PatternRule `yaml:"patterns"`
	Bonuses          []ArchBonus   `yaml:"bonuses"`
	PerformanceRules []FlagRule    `yaml:"performance_rules"`
	SecurityRules    []FlagRule    `yaml:"security_rules"`
	FormatRules      []FlagRule    `yaml:"format_rules"`
	ContextRules     []FlagRule    `yaml:"context_rules"`
	PriorityRules    []FlagRule    `yaml:"priority_rules"`
	StdLibs          []string      `yaml:"std_libs"`
	ThirdParty       []string      `yaml:"third_party"`
}

// DefaultDictionary returns the built-in vocabulary.
func DefaultDictionary() *Dictionary {
	return &Dictionary{
		Terms: []Term{
			{Name: "api", Weight: 3},
			{Name: "rest", Weight: 3},
			{Name: "rest api", Weight: 3, Advanced: true},
			{Name: "database", Weight: 3, Advanced: true},
			{Name: "sql", Weight: 2},
			{Name: "nosql", Weight: 3},
			{Name: "orm", Weight: 3, Advanced: true},
			{Name: "cache", Weight: 3, Advanced: true},
			{Name: "authentication", Weight: 4, Advanced: true},
			{Name: "authorization", Weight: 4, Advanced: true},
			{Name: "jwt", Weight: 4, Advanced: true},
			{Name: "oauth", Weight: 4, Advanced: true},
			{Name: "security", Weight: 3},
			{Name: "encryption", Weight: 4, Advanced: true},
			{Name: "async", Weight: 4, Advanced: true},
			{Name: "concurrency", Weight: 5, Advanced: true},
			{Name: "threading", Weight: 4},
			{Name: "multi-threaded", Weight: 4, Advanced: true},
			{Name: "parallel", Weight: 5, Advanced: true},
			{Name: "microservices", Weight: 6, Advanced: true},
			{Name: "distributed", Weight: 6, Advanced: true},
			{Name: "scalability", Weight: 4, Advanced: true},
			{Name: "websocket", Weight: 4, Advanced: true},
			{Name: "graphql", Weight: 4, Advanced: true},
			{Name: "testing", Weight: 3},
			{Name: "error handling", Weight: 3},
			{Name: "logging", Weight: 2},
			{Name: "monitoring", Weight: 3, Advanced: true},
			{Name: "metrics", Weight: 3},
			{Name: "machine learning", Weight: 7, Advanced: true},
			{Name: "deep learning", Weight: 8, Advanced: true},
			{Name: "neural network", Weight: 8, Advanced: true},
			{Name: "algorithm", Weight: 4, Advanced: true},
			{Name: "fastapi", Weight: 4, Advanced: true},
			{Name: "django", Weight: 4},
			{Name: "flask", Weight: 3},
			{Name: "pandas", Weight: 4, Advanced: true},
			{Name: "numpy", Weight: 3},
			{Name: "pipeline", Weight: 4, Advanced: true},
			{Name: "etl", Weight: 4, Advanced: true},
			{Name: "real-time", Weight: 5, Advanced: true},
			{Name: "streaming", Weight: 5, Advanced: true},
			{Name: "optimization", Weight: 4, Advanced: true},
			{Name: "performance", Weight: 3, Advanced: true},
			{Name: "transaction", Weight: 3, Advanced: true},
			{Name: "validation", Weight: 2},
			{Name: "serverless", Weight: 4, Advanced: true},
			{Name: "containerization", Weight: 4, Advanced: true},
			{Name: "kubernetes", Weight: 6, Advanced: true},
			{Name: "blockchain", Weight: 7, Advanced: true},
		},
		Patterns: []PatternRule{
			{Name: "conditional", Expr: `\b(?:if|else|elif|when|unless)\b`, Weight: 0.5},
			{Name: "loop", Expr: `\b(?:for|while|loop|iterate)\b`, Weight: 0.8},
			{Name: "error_handling", Expr: `\b(?:try|except|catch|error|exception)\b`, Weight: 1},
			{Name: "definition", Expr: `\b(?:class|function|def|method|module)\b`, Weight: 0.3},
			{Name: "database_access", Expr: `\b(?:database|query|sql)\b`, Weight: 2},
			{Name: "endpoint", Expr: `\b(?:api|endpoint|route)\b`, Weight: 1.5},
		},
		Bonuses: []ArchBonus{
			{Name: "microservices", Expr: `\b(?:microservices?|service-oriented)\b`, Points: 8},
			{Name: "distributed", Expr: `\b(?:distributed|consensus)\b`, Points: 7},
			{Name: "event_driven", Expr: `\b(?:event-driven|event sourcing|cqrs)\b`, Points: 6},
			{Name: "ml", Expr: `\b(?:machine learning|neural|deep learning)\b`, Points: 10},
			{Name: "realtime", Expr: `\b(?:real-time|realtime|streaming)\b`, Points: 6},
			{Name: "pipeline", Expr: `\b(?:pipeline|batch processing)\b`, Points: 5},
		},
		PerformanceRules: []FlagRule{
			{Name: "speed", Expr: `\b(?:fast|speed|quick|rapid|high-performance)\b`},
			{Name: "memory", Expr: `\b(?:memory|efficient|low-footprint)\b`},
			{Name: "scalability", Expr: `\b(?:scale|scalable|scalability)\b`},
			{Name: "concurrency", Expr: `\b(?:concurrent|parallel|multi-threaded)\b`},
			{Name: "real_time", Expr: `\b(?:real-time|realtime|live|stream)\b`},
			{Name: "batch", Expr: `\b(?:batch|bulk)\b`},
		},
		SecurityRules: []FlagRule{
			{Name: "encryption", Expr: `\b(?:encrypt|decrypt|cipher|hash|salt)\b`},
			{Name: "authentication", Expr: `\b(?:auth|login|authenticate|token|session|jwt)\b`},
			{Name: "authorization", Expr: `\b(?:authorize|permission|role|privilege)\b`},
			{Name: "validation", Expr: `\b(?:validate|verify|sanitize)\b`},
			{Name: "audit_logging", Expr: `\b(?:audit|trace|monitor)\b`},
			{Name: "data_protection", Expr: `\b(?:protect|secure|private|confidential)\b`},
		},
		FormatRules: []FlagRule{
			{Name: "executable", Expr: `\b(?:script|program)\b`},
			{Name: "library", Expr: `\b(?:library|module|package)\b`},
			{Name: "api", Expr: `\b(?:api|web|server)\b`},
			{Name: "test_suite", Expr: `\b(?:test|unit|integration)\b`},
		},
		ContextRules: []FlagRule{
			{Name: "containerized", Expr: `\b(?:docker|container|kubernetes)\b`},
			{Name: "web", Expr: `\b(?:web|api|server|backend)\b`},
			{Name: "cli", Expr: `\b(?:command|cli|terminal|shell)\b`},
			{Name: "database", Expr: `\b(?:database|db|sql|nosql)\b`},
			{Name: "ml", Expr: `\b(?:machine learning|ml|deep learning)\b`},
		},
		PriorityRules: []FlagRule{
			{Name: "high", Expr: `\b(?:urgent|immediate|critical|high priority)\b`},
			{Name: "medium", Expr: `\b(?:important|medium|normal)\b`},
			{Name: "low", Expr: `\b(?:low priority|optional|nice to have)\b`},
		},
		StdLibs: []string{
			"os", "sys", "json", "re", "time", "datetime", "math", "random",
			"collections", "itertools", "functools", "threading",
			"multiprocessing", "asyncio", "subprocess", "pathlib",
			"dataclasses", "typing", "contextlib", "hashlib", "uuid",
			"statistics", "csv", "urllib", "http", "socket", "ssl", "queue",
		},
		ThirdParty: []string{
			"numpy", "pandas", "matplotlib", "scipy", "scikit-learn",
			"tensorflow", "pytorch", "flask", "django", "fastapi", "aiohttp",
			"requests", "sqlalchemy", "psycopg2", "redis", "celery",
			"pydantic", "pyyaml", "click", "pytest", "coverage",
		},
	}
}
