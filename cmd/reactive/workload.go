package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// workload is a small todo-list model driven by effects. Each step makes
// one kind of change so every dependency rule gets exercised over a cycle.
type workload struct {
	out io.Writer

	todos  *reactive.Array
	filter *reactive.Object
	tags   *reactive.Set
	counts *reactive.Map

	effects []*reactive.Effect
	runs    map[string]int
	step    int
	nextID  int
}

// workloadSteps is the number of steps in one cycle.
const workloadSteps = 6

func newWorkload(out io.Writer) *workload {
	w := &workload{
		out:    out,
		todos:  reactive.Reactive(reactive.NewArray()),
		filter: reactive.Reactive(reactive.NewObject("show", "all")),
		tags:   reactive.Reactive(reactive.NewSet()),
		counts: reactive.Reactive(reactive.NewMap()),
		runs:   make(map[string]int),
	}
	w.addTodo()

	w.watch("summary", func() {
		done := 0
		for _, v := range w.todos.All() {
			if v.(*reactive.Object).Get("done") == true {
				done++
			}
		}
		w.printf("summary: %d/%d done", done, w.todos.Len())
	})

	// Reads the list only while the filter shows finished items.
	w.watch("filtered", func() {
		if w.filter.Get("show") != "done" {
			w.printf("filtered: showing all")
			return
		}
		var titles []string
		for _, v := range w.todos.All() {
			todo := v.(*reactive.Object)
			if todo.Get("done") == true {
				titles = append(titles, todo.Get("title").(string))
			}
		}
		w.printf("filtered: %s", strings.Join(titles, ", "))
	})

	w.watch("tags", func() {
		var names []string
		for v := range w.tags.Values() {
			names = append(names, v.(string))
		}
		sort.Strings(names)
		w.printf("tags: [%s]", strings.Join(names, " "))
	})

	w.watch("urgent", func() {
		w.printf("urgent: %v", w.counts.Get("urgent"))
	})

	return w
}

func (w *workload) watch(name string, fn func()) {
	e := reactive.Watch(func() {
		w.runs[name]++
		fn()
	}, reactive.EffectName(name))
	w.effects = append(w.effects, e)
}

func (w *workload) printf(format string, args ...any) {
	if w.out != nil {
		fmt.Fprintf(w.out, "    "+format+"\n", args...)
	}
}

func (w *workload) addTodo() {
	w.nextID++
	w.todos.Push(reactive.NewObject(
		"title", fmt.Sprintf("task %d", w.nextID),
		"done", false,
	))
}

// Step applies the next change and returns a description of it.
func (w *workload) Step() string {
	step := w.step % workloadSteps
	w.step++

	switch step {
	case 0:
		w.addTodo()
		return "push a todo"
	case 1:
		if w.todos.Len() == 0 {
			w.addTodo()
		}
		todo := w.todos.Get(0).(*reactive.Object)
		todo.Set("done", todo.Get("done") != true)
		return "toggle the first todo"
	case 2:
		w.filter.Set("show", "done")
		return "show finished todos"
	case 3:
		w.tags.Add("urgent")
		return "tag urgent"
	case 4:
		n, _ := w.counts.Get("urgent").(int)
		w.counts.Set("urgent", n+1)
		return "count an urgent todo"
	default:
		w.todos.Pop()
		w.tags.Delete("urgent")
		w.filter.Set("show", "all")
		return "pop a todo, untag, show all"
	}
}

// Runs returns how many times the named effect has run.
func (w *workload) Runs(name string) int {
	return w.runs[name]
}

// Stop stops every effect.
func (w *workload) Stop() {
	for _, e := range w.effects {
		e.Stop()
	}
}
