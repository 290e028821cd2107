package mdstudio

// DefaultMarkdown is the document shown on first use and after a reset.
const DefaultMarkdown = "# Markdown Studio\n" +
	"\n" +
	"Start writing on the left and watch your preview update in real time.\n" +
	"\n" +
	"## Features\n" +
	"- Clean interface focused on writing and previewing\n" +
	"- Keyboard friendly (Markdown shortcuts still work!)\n" +
	"- Autosaves your progress\n" +
	"- Upload plain Markdown files to continue working\n" +
	"- Export Markdown or print to PDF when you're done\n" +
	"- Dark mode for those late night writing sessions\n" +
	"- Copy the preview with formatting into mail and CMS editors\n" +
	"\n" +
	"## Code highlighting\n" +
	"```go\n" +
	"func greet(name string) string {\n" +
	"\treturn fmt.Sprintf(\"Hello, %s!\", name)\n" +
	"}\n" +
	"```\n" +
	"\n" +
	"## Tables\n" +
	"| Syntax | Description |\n" +
	"| ------ | ----------- |\n" +
	"| Header | Title |\n" +
	"| Paragraph | Text |\n" +
	"\n" +
	"> “Writing is easy. All you have to do is cross out the wrong words.” – Mark Twain\n"
