// Package expand resolves reference expressions in raw document text.
//
// Environment and include expansion run once over a file's text before it is
// parsed. Local expansion runs over the serialized merged document and is
// repeated until the text stops changing or a pass cap is reached.
package expand
