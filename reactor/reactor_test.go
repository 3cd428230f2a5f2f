package reactor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alderfall/alder/reactor/internal"
)

func TestSignal(t *testing.T) {
	t.Run("read returns initial value", func(t *testing.T) {
		s := NewSignal(42)
		assert.Equal(t, 42, s.Read())
	})

	t.Run("write same value does not dirty dependents", func(t *testing.T) {
		log := []string{}
		s := NewSignal(1)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("ran %d", s.Read()))
		})

		s.Write(1)
		Flush()

		assert.Equal(t, []string{"ran 1"}, log)
	})

	t.Run("peek does not track a dependency", func(t *testing.T) {
		log := []string{}
		s := NewSignal(0)
		other := NewSignal(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("peek %d", s.Peek()))
			other.Read()
		})

		s.Write(10)
		Flush()
		assert.Equal(t, []string{"peek 0"}, log)

		other.Write(1)
		Flush()
		assert.Equal(t, []string{"peek 0", "peek 10"}, log)
	})
}

func TestDerived(t *testing.T) {
	t.Run("is lazy until first read", func(t *testing.T) {
		ran := 0
		s := NewSignal(1)

		d := NewDerived(func() int {
			ran++
			return s.Read() * 2
		})

		assert.Equal(t, 0, ran)
		assert.Equal(t, 2, d.Read())
		assert.Equal(t, 1, ran)
	})

	t.Run("memoizes until a dep changes", func(t *testing.T) {
		ran := 0
		s := NewSignal(1)

		d := NewDerived(func() int {
			ran++
			return s.Read() * 2
		})

		d.Read()
		d.Read()
		assert.Equal(t, 1, ran)

		s.Write(2)
		d.Read()
		assert.Equal(t, 2, ran)
	})

	t.Run("diamond settles before the dependent effect sees it (S1)", func(t *testing.T) {
		log := []int{}
		a := NewSignal(0)

		b := NewDerived(func() int { return a.Read() * 2 })
		c := NewDerived(func() int { return a.Read() + 1 })

		NewEffect(func() {
			log = append(log, b.Read()+c.Read())
		})

		a.Write(3)
		Flush()

		assert.Equal(t, []int{1, 10}, log)
	})

	t.Run("same-value result does not propagate", func(t *testing.T) {
		log := []string{}
		s := NewSignal(1)

		parity := NewDerived(func() int { return s.Read() % 2 })

		NewEffect(func() {
			log = append(log, fmt.Sprintf("parity %d", parity.Read()))
		})

		s.Write(3) // still odd, parity unchanged
		Flush()

		assert.Equal(t, []string{"parity 1"}, log)
	})
}

func TestEffectReactorBehavior(t *testing.T) {
	t.Run("reruns on dep change and cleans up first", func(t *testing.T) {
		log := []string{}
		count := NewSignal(0)

		NewEffect(func() {
			n := count.Read()
			log = append(log, fmt.Sprintf("run %d", n))
			OnCleanup(func() { log = append(log, fmt.Sprintf("cleanup %d", n)) })
		})

		count.Write(1)
		Flush()

		assert.Equal(t, []string{"run 0", "cleanup 0", "run 1"}, log)
	})

	t.Run("deps are rebuilt from scratch each run", func(t *testing.T) {
		log := []string{}
		useA := NewSignal(true)
		a := NewSignal("a")
		b := NewSignal("b")

		NewEffect(func() {
			if useA.Read() {
				log = append(log, "read "+a.Read())
			} else {
				log = append(log, "read "+b.Read())
			}
		})

		useA.Write(false)
		Flush()
		assert.Equal(t, []string{"read a", "read b"}, log)

		// a is no longer a dep; writing it must not rerun the effect.
		a.Write("a2")
		Flush()
		assert.Equal(t, []string{"read a", "read b"}, log)

		b.Write("b2")
		Flush()
		assert.Equal(t, []string{"read a", "read b", "read b2"}, log)
	})

	t.Run("dispose tears down children and cleanups", func(t *testing.T) {
		log := []string{}
		count := NewSignal(0)

		e := NewEffect(func() {
			count.Read()
			log = append(log, "outer")
			OnCleanup(func() { log = append(log, "outer cleanup") })

			NewEffect(func() {
				log = append(log, "inner")
				OnCleanup(func() { log = append(log, "inner cleanup") })
			})
		})

		e.Dispose()
		count.Write(1) // disposed effect must not rerun
		Flush()

		assert.Equal(t, []string{
			"outer", "inner",
			"inner cleanup", "outer cleanup",
		}, log)
	})
}

func TestBatchReactor(t *testing.T) {
	t.Run("coalesces multiple writes into one drain", func(t *testing.T) {
		log := []string{}
		count := NewSignal(0)

		NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))
			OnCleanup(func() { log = append(log, "cleanup") })
		})

		NewBatch(func() {
			count.Write(10)
			count.Write(20)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"cleanup",
			"changed 20",
		}, log)
	})
}

func TestFlush(t *testing.T) {
	t.Run("Write only queues; the effect reruns on the next Flush", func(t *testing.T) {
		runs := 0
		s := NewSignal(0)

		NewEffect(func() {
			s.Read()
			runs++
		})
		assert.Equal(t, 1, runs)

		s.Write(1)
		assert.Equal(t, 1, runs) // still queued, not yet drained

		Flush()
		assert.Equal(t, 2, runs)
	})

	t.Run("bare writes in one synchronous region coalesce into one drain (S5)", func(t *testing.T) {
		runs := 0
		x := NewSignal(0)
		y := NewSignal(0)

		NewEffect(func() {
			x.Read()
			y.Read()
			runs++
		})
		assert.Equal(t, 1, runs)

		x.Write(1)
		y.Write(1)
		Flush()

		assert.Equal(t, 2, runs) // not 3 — one drain for both writes
	})
}

func TestOwnerReactor(t *testing.T) {
	t.Run("dispose tears down and runs handlers in LIFO order", func(t *testing.T) {
		log := []string{}
		o := NewOwner()

		o.Run(func() error {
			NewEffect(func() {
				log = append(log, "effect")
				OnCleanup(func() { log = append(log, "effect cleanup") })
				OnCleanup(func() { log = append(log, "second cleanup") })
			})
			return nil
		})

		o.Dispose()

		assert.Equal(t, []string{"effect", "second cleanup", "effect cleanup"}, log)
	})

	t.Run("nested owners dispose child before parent", func(t *testing.T) {
		log := []string{}
		o := NewOwner()
		o.OnDispose(func() { log = append(log, "parent disposed") })

		o.Run(func() error {
			NewOwner().OnDispose(func() { log = append(log, "child disposed") })
			return nil
		})

		o.Dispose()

		assert.Equal(t, []string{"child disposed", "parent disposed"}, log)
	})

	t.Run("error handler catches a panic from Run", func(t *testing.T) {
		o := NewOwner()
		var caught any

		o.OnError(func(e any) { caught = e })

		_ = o.Run(func() error {
			panic("boom")
		})

		assert.Equal(t, "boom", caught)
	})

	t.Run("Run panics when invoked from a goroutine other than its creator", func(t *testing.T) {
		created := make(chan Owner, 1)
		go func() { created <- NewOwner() }()
		o := <-created

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			_ = o.Run(func() error { return nil })
		}()

		require.NotNil(t, recovered)
		_, ok := recovered.(*internal.CrossGoroutineOwnerError)
		assert.True(t, ok, "expected *internal.CrossGoroutineOwnerError, got %T", recovered)
	})
}

func TestContextReactor(t *testing.T) {
	t.Run("inherits ancestor value, nested Set shadows it", func(t *testing.T) {
		theme := NewContext("light")
		var outer, inner string

		dispose := NewRoot(func() {
			theme.Set("dark")

			outer = theme.Value()

			NewOwner().Run(func() error {
				theme.Set("contrast")
				inner = theme.Value()
				return nil
			})
		})
		dispose()

		assert.Equal(t, "dark", outer)
		assert.Equal(t, "contrast", inner)
	})

	t.Run("returns fallback when nothing set", func(t *testing.T) {
		count := NewContext(0)
		assert.Equal(t, 0, count.Value())
	})
}

func TestForkReactor(t *testing.T) {
	t.Run("with is invisible until apply", func(t *testing.T) {
		s := NewSignal(1)

		f := NewFork(func() {
			s.Write(99)
		})

		assert.Equal(t, 1, s.Read())

		err := f.Apply()
		assert.NoError(t, err)
		assert.Equal(t, 99, s.Read())
	})

	t.Run("apply is one-shot", func(t *testing.T) {
		s := NewSignal(1)
		f := NewFork(func() { s.Write(2) })

		assert.NoError(t, f.Apply())
		err := f.Apply()
		assert.Error(t, err)
	})

	t.Run("with explores further without mutating the fork", func(t *testing.T) {
		s := NewSignal(1)
		f := NewFork(func() { s.Write(2) })

		err := f.With(func() { s.Write(3) })
		assert.NoError(t, err)

		assert.NoError(t, f.Apply())
		assert.Equal(t, 2, s.Read()) // the With-only write of 3 never landed
	})

	t.Run("derived recomputed inside a fork commits without rerunning", func(t *testing.T) {
		ran := 0
		s := NewSignal(1)
		double := NewDerived(func() int {
			ran++
			return s.Read() * 2
		})
		double.Read()
		ran = 0

		f := NewFork(func() {
			s.Write(5)
			double.Read() // force the speculative recompute inside the fork
		})
		assert.Equal(t, 1, ran)

		assert.NoError(t, f.Apply())
		assert.Equal(t, 10, double.Read())
		assert.Equal(t, 1, ran) // not recomputed again on commit
	})
}

func TestUntrackReactor(t *testing.T) {
	t.Run("reads inside Untrack register no dependency", func(t *testing.T) {
		log := []string{}
		tracked := NewSignal(0)
		untracked := NewSignal(0)

		NewEffect(func() {
			t := tracked.Read()
			u := Untrack(func() int { return untracked.Read() })
			log = append(log, fmt.Sprintf("%d/%d", t, u))
		})

		untracked.Write(1)
		Flush()
		assert.Equal(t, []string{"0/0"}, log)

		tracked.Write(1)
		Flush()
		assert.Equal(t, []string{"0/0", "1/1"}, log)
	})
}
