package script

import (
	"github.com/dop251/goja"

	"github.com/gogpu/rasterdoc"
)

func (e *Engine) documentObject() *goja.Object {
	d := e.doc
	o := e.vm.NewObject()
	_ = o.Set("name", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(d.Name())
	})
	_ = o.Set("width", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(d.Width())
	})
	_ = o.Set("height", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(d.Height())
	})
	_ = o.Set("bounds", func(goja.FunctionCall) goja.Value {
		return e.rectObject(d.Canvas())
	})
	_ = o.Set("topLevelNodes", func(goja.FunctionCall) goja.Value {
		return e.nodeArray(d.TopLevelNodes())
	})
	_ = o.Set("nodeByName", func(call goja.FunctionCall) goja.Value {
		l, err := d.FindLayer(call.Argument(0).String())
		if err != nil {
			return goja.Null()
		}
		return e.nodeObject(l)
	})
	_ = o.Set("resizeToLayers", func(goja.FunctionCall) goja.Value {
		r, err := d.ResizeToLayers()
		if err != nil {
			e.throw(err)
		}
		return e.rectObject(r)
	})
	_ = o.Set("resizeImage", func(call goja.FunctionCall) goja.Value {
		r := rasterdoc.R(intArg(call, 0), intArg(call, 1), intArg(call, 2), intArg(call, 3))
		if err := d.Resize(r); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})
	_ = o.Set("rotateImage", func(call goja.FunctionCall) goja.Value {
		rad, err := d.Rotate(call.Argument(0).ToFloat())
		if err != nil {
			e.throw(err)
		}
		return e.vm.ToValue(rad)
	})
	_ = o.Set("scaleImage", func(call goja.FunctionCall) goja.Value {
		p, err := rasterdoc.ScaleAdjust(intArg(call, 0), intArg(call, 1), intArg(call, 2), intArg(call, 3),
			call.Argument(4).String())
		if err != nil {
			e.throw(err)
		}
		if err := d.Scale(p); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})
	// Projections are computed on demand, so there is nothing to refresh.
	_ = o.Set("refreshProjection", func(goja.FunctionCall) goja.Value {
		return goja.Undefined()
	})
	return o
}

func (e *Engine) nodeArray(layers []*rasterdoc.Layer) goja.Value {
	out := make([]any, len(layers))
	for i, l := range layers {
		out[i] = e.nodeObject(l)
	}
	return e.vm.NewArray(out...)
}

func (e *Engine) nodeObject(l *rasterdoc.Layer) *goja.Object {
	o := e.vm.NewObject()
	_ = o.Set("name", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(l.Name())
	})
	_ = o.Set("bounds", func(goja.FunctionCall) goja.Value {
		return e.rectObject(l.Bounds())
	})
	_ = o.Set("childNodes", func(goja.FunctionCall) goja.Value {
		return e.nodeArray(l.Children())
	})
	_ = o.Set("visible", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(l.Visible())
	})
	_ = o.Set("setVisible", func(call goja.FunctionCall) goja.Value {
		l.SetVisible(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})
	_ = o.Set("opacity", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(l.Opacity())
	})
	_ = o.Set("setOpacity", func(call goja.FunctionCall) goja.Value {
		l.SetOpacity(call.Argument(0).ToFloat())
		return goja.Undefined()
	})
	_ = o.Set("hasPixels", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(l.Pixels() != nil)
	})
	_ = o.Set("invert", func(goja.FunctionCall) goja.Value {
		buf := e.pixelsOf(l)
		if err := rasterdoc.InvertRegion(buf, buf.Rect()); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})
	_ = o.Set("iterator", func(call goja.FunctionCall) goja.Value {
		buf := e.pixelsOf(l)
		it, err := rasterdoc.NewRegionIterator(buf, intArg(call, 0), intArg(call, 1), intArg(call, 2), intArg(call, 3))
		if err != nil {
			e.throw(err)
		}
		return e.iteratorObject(it)
	})
	return o
}

func (e *Engine) pixelsOf(l *rasterdoc.Layer) *rasterdoc.PixelBuffer {
	buf := l.Pixels()
	if buf == nil {
		e.throw(ErrNoPixels)
	}
	return buf
}

// iteratorObject exposes it with the isDone/next loop shape used by
// editor scripts. x and y are layer-local pixel coordinates.
func (e *Engine) iteratorObject(it *rasterdoc.RegionIterator) *goja.Object {
	o := e.vm.NewObject()
	_ = o.Set("isDone", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(it.IsDone())
	})
	_ = o.Set("next", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(it.Advance())
	})
	_ = o.Set("x", func(goja.FunctionCall) goja.Value {
		x, _, err := it.Current()
		if err != nil {
			e.throw(err)
		}
		return e.vm.ToValue(x)
	})
	_ = o.Set("y", func(goja.FunctionCall) goja.Value {
		_, y, err := it.Current()
		if err != nil {
			e.throw(err)
		}
		return e.vm.ToValue(y)
	})
	_ = o.Set("get", func(call goja.FunctionCall) goja.Value {
		v, err := it.Get(intArg(call, 0))
		if err != nil {
			e.throw(err)
		}
		return e.vm.ToValue(int(v))
	})
	_ = o.Set("set", func(call goja.FunctionCall) goja.Value {
		if err := it.Set(intArg(call, 0), intArg(call, 1)); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})
	_ = o.Set("invert", func(goja.FunctionCall) goja.Value {
		if err := it.InvertPixel(); err != nil {
			e.throw(err)
		}
		return goja.Undefined()
	})
	return o
}
