// Package loader merges command-line arguments with a YAML or JSON
// configuration file.
//
// A load runs in fixed steps: parse the arguments, load the file named by
// --config (expanding $(ENV) references and %[file] includes in its text),
// overlay non-null command-line values on the file's values, then serialize
// the merged document and expand %(local) references against its top-level
// keys until the text settles.
package loader
