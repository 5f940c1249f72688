package model

import (
	"fmt"
	"strings"
	"text/template"
)

// prelude is the class name of the embedded parametrized runtime.
const prelude = "_ParametrizedModel"

// The runtime resolves every argument of a decorated method by precedence:
// call-time positional, call-time keyword, stored parameter, omitted. None
// values are dropped so the wrapped function's defaults apply.
var preludeTemplate = template.Must(template.New("prelude").Parse(`class _ParametrizedModel:
    """Runtime support for parametrized generated models."""

    def __init__(self, params={}):
        self._params = {k: {{.}}.asarray(v) for k, v in params.items()}
        for name, spec in self.var_specs.items():
            if {{.}}.size(spec) == 0 and name not in self._params:
                self._params[name] = {{.}}.array([])

    def parametrize(self, params={}, **kwparams):
        """Parametrize a new instance with the given and current params."""
        new_params = self._params.copy()
        new_params.update(params)
        new_params.update(kwparams)
        return type(self)(new_params)

    @property
    def params(self):
        """Copy of the stored parameters."""
        return dict(self._params)

    def call_args(self, f, *args, **kwargs):
        fargs = self.signatures[f.__name__]
        call_args = {k: v for k, v in self._params.items() if k in fargs}
        call_args.update({k: v for k, v in kwargs.items() if v is not None})
        call_args.update({k: v for k, v in zip(fargs, args) if v is not None})
        return call_args

    def call(self, f, *args, **kwargs):
        return f(**self.call_args(f, *args, **kwargs))

    @staticmethod
    def decorate(f):
        code = f.__code__
        args = code.co_varnames[:code.co_argcount]
        source = _parametrized_call_template.format(
            fname=f.__name__,
            signature=''.join(', %s=None' % a for a in args),
            args=''.join(', %s' % a for a in args),
        )
        context = dict(_wrapped_function=f)
        exec(source, context)
        return context[f.__name__]

    @classmethod
    def meta(cls, name, bases, classdict):
        if cls not in bases:
            bases = bases + (cls,)
        for k, v in list(classdict.items()):
            if isinstance(v, staticmethod):
                classdict[k] = cls.decorate(v.__func__)
        return type(name, bases, classdict)

    @classmethod
    def pack(cls, name, d, fill=0):
        spec = {{.}}.array(cls.var_specs[name])
        fill = {{.}}.asarray(fill)
        ret = {{.}}.zeros(fill.shape + spec.shape)
        ret[...] = fill[(...,) + (None,) * spec.ndim]
        for index, elem_name in {{.}}.ndenumerate(spec):
            if elem_name in d:
                ret[(...,) + index] = d[elem_name]
        return ret


_parametrized_call_template = '''\
def {fname}(self{signature}):
    """Parametrized version of ` + "`{fname}`" + `."""
    return self.call(_wrapped_function{args})
'''
`))

func parametrizedRuntime(numpyAlias string) (string, error) {
	var sb strings.Builder
	if err := preludeTemplate.Execute(&sb, numpyAlias); err != nil {
		return "", fmt.Errorf("rendering parametrized runtime: %w", err)
	}
	return sb.String(), nil
}
