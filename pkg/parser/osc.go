package parser

import "bytes"

// SplitOSC splits a raw OSC body (as delivered to OnOSC) into its
// ';'-separated fields, mirroring st.c's strparse applied to an OSC
// string (strescseq.args[]).
func SplitOSC(body []byte) [][]byte {
	return bytes.Split(body, []byte{';'})
}
