package barcode

import (
	"context"
	"errors"
	"path/filepath"

	check "gopkg.in/check.v1"
)

func (s *S) TestStore(c *check.C) {
	dir := c.MkDir()
	st, err := OpenStore(dir)
	c.Assert(err, check.IsNil)

	d := Digest("echo hi\n")
	c.Check(d, check.HasLen, 64)
	c.Check(Digest("echo hi\n"), check.Equals, d)
	c.Check(Digest("echo ho\n") == d, check.Equals, false)

	done, err := st.Done("bc_1", d)
	c.Assert(err, check.IsNil)
	c.Check(done, check.Equals, false)

	c.Assert(st.MarkDone("bc_1", d), check.IsNil)
	done, err = st.Done("bc_1", d)
	c.Assert(err, check.IsNil)
	c.Check(done, check.Equals, true)

	// an edited script runs again
	done, err = st.Done("bc_1", Digest("echo ho\n"))
	c.Assert(err, check.IsNil)
	c.Check(done, check.Equals, false)
	c.Assert(st.Close(), check.IsNil)

	st, err = OpenStore(dir)
	c.Assert(err, check.IsNil)
	defer st.Close()
	done, err = st.Done("bc_1", d)
	c.Assert(err, check.IsNil)
	c.Check(done, check.Equals, true)

	c.Assert(st.Forget("bc_1"), check.IsNil)
	done, err = st.Done("bc_1", d)
	c.Assert(err, check.IsNil)
	c.Check(done, check.Equals, false)
}

func (s *S) TestForgetFrom(c *check.C) {
	work := c.MkDir()
	trace := filepath.Join(work, "trace")
	p := NewPipeline()
	a, _ := p.Add("a", work, "echo a >> "+trace+"\n")
	b, _ := p.Add("b", work, "echo b >> "+trace+"\n")
	cc, _ := p.Add("c", work, "echo c >> "+trace+"\n")
	_, _ = p.Add("d", work, "echo d >> "+trace+"\n")
	c.Assert(p.After(b, a), check.IsNil)
	c.Assert(p.After(cc, b), check.IsNil)

	r := newRunner(c, work, 1)
	defer r.Store.Close()
	c.Assert(r.Run(context.Background(), p), check.IsNil)
	c.Check(readLines(c, trace), check.HasLen, 4)

	// b and everything after it runs again; a and d stay done
	c.Assert(ForgetFrom(r.Store, p, []string{"b"}), check.IsNil)
	c.Assert(r.Run(context.Background(), p), check.IsNil)
	c.Check(readLines(c, trace)[4:], check.DeepEquals, []string{"b", "c"})

	err := ForgetFrom(r.Store, p, []string{"nope"})
	c.Check(errors.Is(err, ErrConfig), check.Equals, true)
	c.Check(ForgetFrom(r.Store, p, nil), check.IsNil)
}
