package search

import (
	"strconv"

	"github.com/cpltasks/cpltasks/catalog"
	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/mansion"
)

var args = struct {
	file  *string
	query *string
	limit *int
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("search", "Find the task links of a catalog that best match a query")
	args.file = cmd.Arg("file", "A catalog written by 'generate'").Required().ExistingFile()
	args.query = cmd.Arg("query", "What to look for, e.g. 'password'").Required().String()
	args.limit = cmd.Flag("limit", "Maximum number of results").Short('n').Default("10").Int()
	ctx.Register(cmd, do)
}

type Hit struct {
	Name     string `json:"name"`
	Cmd      string `json:"cmd"`
	Distance int    `json:"distance"`
}

func do(ctx *mansion.Context) {
	c, err := catalog.Read(*args.file)
	ctx.Must(err)

	matches := catalog.Search(c, *args.query, *args.limit)

	var hits []Hit
	var rows [][]string
	for _, m := range matches {
		hits = append(hits, Hit{Name: m.Item.Name, Cmd: m.Item.Cmd, Distance: m.Distance})
		rows = append(rows, []string{strconv.Itoa(m.Distance), m.Item.Name, m.Item.Cmd})
	}

	comm.ResultOrPrint(hits, func() {
		comm.Table([]string{"Distance", "Name", "Command"}, rows)
	})
}
