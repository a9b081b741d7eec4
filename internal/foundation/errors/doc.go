// Package errors provides the classified errors used across folio.
//
// A ClassifiedError carries a category (config, document, render, build and
// so on), a severity and structured context. Document errors point at the
// source file and line through ErrorBuilder.At, so the build report and the
// CLI can print "posts/hello.md:3". The CLI adapter maps categories to exit
// codes.
//
//	err := errors.WrapError(yamlErr, errors.CategoryDocument, "malformed document").
//		At("posts/hello.md", 3).
//		Build()
package errors
