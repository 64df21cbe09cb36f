// Package harness runs catalog scenarios end to end.
//
// A scenario drives a store, a projection bound to a recording surface and,
// optionally, a filter pipeline backed by an in-memory filter store. Every
// step is traced; the trace is compared against golden files in tests.
//
// # Scenario Format
//
//	name: menu_reorder
//	description: "Rows move without reloading the section"
//	catalog: ../catalogs/menu.yaml      # optional initial catalog
//	selection_cooldown: 500ms           # optional
//	filter:                             # optional
//	  city_id: 1
//	  category_id: 7
//	  from_catalog: true                # or an explicit components list
//	steps:
//	  - replace:                        # inline catalog content
//	      sections:
//	        - title: Pizza
//	          items: [{id: a, title: A}]
//	    expect:
//	      ops: ["InsertSection(0,primary/Pizza)"]
//	  - load: ../catalogs/next.yaml
//	  - select: {section: 0, row: 0}
//	    expect: {selected: a}
//	  - advance: 1s
//	  - query: "mo"
//	    expect: {components: [Mozzarella]}
//	  - toggle: 1
//	    expect: {filter: [1]}
//	  - clear_query: true
//	  - drop_filter: true
//	  - close: true
//	    expect: {popped: 1}
//
// Each step performs exactly one action. Expectations are optional and only
// the fields present are checked.
//
// # Invariants
//
// After every step the harness checks that the surface recorded no count
// mismatch and that the projection shows exactly what the store holds. A
// violation fails the scenario even when every expectation matched.
//
// # Determinism
//
// Scenarios run with a manual clock, a logical store clock and fixed
// subscription IDs, so traces are byte-identical across runs.
package harness
