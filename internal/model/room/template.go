package room

// Starter content seeded into new rooms, per language.
const (
	LanguageJavaScript = "javascript"
	LanguagePython     = "python"
)

const javascriptTemplate = `// Welcome to the coding interview!
// Start typing your code here...

function hello() {
  console.log("Hello, World!");
}

hello();`

const pythonTemplate = `# Welcome to the coding interview!
# Start typing your code here...

def hello():
    print("Hello, World!")

hello()`

// TemplateFor returns the starter content for a language. Unknown
// languages fall back to the JavaScript template, which is also the
// default for rooms created without an explicit language.
func TemplateFor(language string) string {
	if language == LanguagePython {
		return pythonTemplate
	}
	return javascriptTemplate
}
