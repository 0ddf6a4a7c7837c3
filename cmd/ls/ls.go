package ls

import (
	"strconv"

	"github.com/cpltasks/cpltasks/catalog"
	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/mansion"
)

var args = struct {
	file *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("ls", "Prints the task links of a catalog file")
	args.file = cmd.Arg("file", "A catalog written by 'generate'").Required().ExistingFile()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	c, err := catalog.Read(*args.file)
	ctx.Must(err)

	comm.ResultOrPrint(c, func() {
		comm.Logf("%s, Windows build %s, schema %s", c.Language, c.WindowsVersion, c.SchemaVersion)
		comm.Table([]string{"Name", "Command", "Keywords"}, Rows(c))
		comm.Statf("%d task links", len(c.Items))
	})
}

// Rows formats items as name, command and number of keywords.
func Rows(c *catalog.Catalog) [][]string {
	var rows [][]string
	for _, item := range c.Items {
		numKeywords := 0
		for _, group := range item.Keywords {
			numKeywords += len(group)
		}
		rows = append(rows, []string{item.Name, item.Cmd, strconv.Itoa(numKeywords)})
	}
	return rows
}
