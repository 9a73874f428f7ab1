// Package mdhtml converts a constrained Markdown dialect to HTML as a stream.
//
// The dialect has ATX headings (# to ######), paragraph text and line
// terminators (LF, CR, CRLF). Input is pulled through three layers, each
// driven on demand by the next:
//
//   - Reassembler reads bytes into a fixed buffer and yields whole UTF-8
//     code units, including units split across two reads.
//   - Tokenizer groups units into heading markers, line terminators and
//     text, looking ahead to decide whether a run of '#' is a marker.
//   - Parser is a state machine that maps tokens to Mapper writes.
//
// Text passes through verbatim; no HTML escaping is done.
//
// Example:
//
//	err := mdhtml.Convert(mdhtml.ConvertRequest{
//		Reader: strings.NewReader("# Hi\nbye"),
//		Writer: os.Stdout,
//		Schema: mdhtml.DefaultSchema(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	// Output: <h1>Hi</h1><br><p>bye</p>
package mdhtml
