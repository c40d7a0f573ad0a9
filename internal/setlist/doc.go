// Package setlist loads bank and pedalboard layouts from CUE files.
//
// A setlist directory holds one CUE package. Exactly one file declares the
// bank list; other files may hold shared values or definitions:
//
//	package setlist
//
//	banks: [
//		{
//			name: "Live"
//			pedalboards: [
//				{name: "Clean", effects: ["compressor", "reverb"]},
//				{name: "Lead"},
//			]
//		},
//	]
//
// Loading unifies the package with an embedded schema, compiles the result
// into BankSpec values and validates names. Build turns specs into model
// banks; Populate also registers them through the bank controller.
package setlist
