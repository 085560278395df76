// Package script runs JavaScript against a rasterdoc.Document.
//
// Scripts see a global "document" object and a minimal "console". The
// surface mirrors the host scripting API that editor plugins drive:
//
//	var node = document.nodeByName("paint");
//	var it = node.iterator(0, 0, node.bounds().width, node.bounds().height);
//	while (!it.isDone()) {
//	    it.invert();
//	    it.next();
//	}
//	document.resizeToLayers();
//
// Errors raised by the document surface become JavaScript exceptions. If a
// script lets one escape, Execute returns an error that wraps the original
// rasterdoc error, so errors.Is keeps working.
package script
