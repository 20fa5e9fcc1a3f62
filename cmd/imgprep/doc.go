// Command imgprep generates responsive image variants and inlines blurred
// placeholders into an HTML document.
//
// Running imgprep with no subcommand performs a full build: the output
// directory is wiped, every source image under the given paths (default
// "images") is resized to each breakpoint in its own format plus WebP and
// AVIF, and references such as "hero-blur.webp" in the HTML document are
// replaced with base64 data URLs. --watch keeps running and rebuilds when
// sources change.
//
// Subcommands:
//
//	imgprep check          run filesystem preflight checks
//	imgprep config init    write an annotated sample configuration
//	imgprep config show    print the resolved breakpoints and qualities
package main
