package barcode

import (
	"errors"
	"strings"

	check "gopkg.in/check.v1"
)

var testSettings = Settings{
	Barcodes:        []string{"BC01", "BC02"},
	WorkDir:         "/w",
	OutDir:          "/o",
	Ontbc:           "/opt/ontbc",
	Porechop:        "porechop",
	PorechopThreads: 2,
}

func (s *S) TestBuildPipeline(c *check.C) {
	cell := &Cell{
		Fastqs:    []string{"/cell/a.fastq", "/cell/my run/b.fastq"},
		Summaries: []string{"/cell/s1.txt", "/cell/s2.txt"},
	}
	p, err := BuildPipeline(cell, testSettings)
	c.Assert(err, check.IsNil)
	c.Check(names(p.Tasks()), check.DeepEquals, []string{
		"bc_1", "bc_2", "join_summary", "cat_BC01", "join_BC01", "cat_BC02", "join_BC02",
	})

	bc2, _ := p.Task("bc_2")
	c.Check(bc2.Dir, check.Equals, "/w/bc_2")
	c.Check(bc2.Script, check.Equals, `/opt/ontbc clean '/cell/my run/b.fastq' > clean.fastq
porechop -i clean.fastq -b . -t 2 --verbosity 2 --no_split > porechop.log
rm -f clean.fastq
`)

	js, _ := p.Task("join_summary")
	c.Check(js.Dir, check.Equals, "/w")
	c.Check(js.Script, check.Equals, "cat /cell/s1.txt /cell/s2.txt > all.summary.txt\n")

	cat, _ := p.Task("cat_BC01")
	c.Check(names(p.Upstream(cat)), check.DeepEquals, []string{"bc_1", "bc_2"})
	c.Check(strings.Contains(cat.Script, "mkdir -p /o/BC01\n"), check.Equals, true)
	c.Check(strings.Contains(cat.Script, "rm -f bc_*/BC01.fastq\n"), check.Equals, true)

	join, _ := p.Task("join_BC02")
	c.Check(join.Dir, check.Equals, "/o/BC02")
	c.Check(names(p.Upstream(join)), check.DeepEquals, []string{"join_summary", "cat_BC02"})
	c.Check(strings.Contains(join.Script,
		"/opt/ontbc filter --fastq BC02.fastq --summary /w/all.summary.txt --fast5 /w/fast5.fofn \\\n"+
			"  --min_score -100 --min_length 0 --out BC02\n"), check.Equals, true)
	c.Check(strings.Contains(join.Script, "mv BC02.filtered.summary.txt BC02.summary.txt\n"), check.Equals, true)

	order, err := p.Order()
	c.Assert(err, check.IsNil)
	c.Check(order, check.HasLen, 7)
}

func (s *S) TestBuildPipelineErrors(c *check.C) {
	full := &Cell{Fastqs: []string{"a.fastq"}, Summaries: []string{"s.txt"}}
	for _, t := range []struct {
		cell *Cell
		bcs  []string
	}{
		{full, nil},
		{full, []string{"BC*"}},
		{full, []string{""}},
		{&Cell{Summaries: []string{"s.txt"}}, []string{"BC01"}},
		{&Cell{Fastqs: []string{"a.fastq"}}, []string{"BC01"}},
	} {
		st := testSettings
		st.Barcodes = t.bcs
		_, err := BuildPipeline(t.cell, st)
		c.Check(errors.Is(err, ErrConfig), check.Equals, true, check.Commentf("%v %v", t.cell, t.bcs))
	}

	st := testSettings
	st.Barcodes = []string{"BC01", "BC01"}
	_, err := BuildPipeline(full, st)
	c.Check(err, check.ErrorMatches, `duplicate task "cat_BC01"`)
}

func (s *S) TestQuote(c *check.C) {
	c.Check(quote("/a/b.fastq"), check.Equals, "/a/b.fastq")
	c.Check(quote("a b"), check.Equals, "'a b'")
	c.Check(quote("it's"), check.Equals, `'it'\''s'`)
	c.Check(quote(""), check.Equals, "''")
}
