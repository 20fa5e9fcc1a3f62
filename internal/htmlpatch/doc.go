// Package htmlpatch swaps placeholder references in an HTML document for
// inline blurred data URLs.
//
// The document is tokenized with golang.org/x/net/html. Only the attribute
// values of matched tags are rewritten; every other byte, including
// whitespace, comments and attribute quoting, is written back as read.
//
// Rules run in order for each image stem and the first rule that matches
// wins:
//
//   - direct: any element whose src file name starts with "{stem}-blur."
//   - picture: every <img> src inside a <picture> block whose srcset
//     references a breakpoint variant of the stem
//
// File names are compared after URL path unescaping and Unicode NFC
// normalisation.
package htmlpatch
