package python

// resultMarker prefixes the JSON line a probe script prints. Modules are free
// to write to stdout while importing, so the parser only trusts this line.
// Scripts send stdout to stderr until the result is ready and start the
// marker on a fresh line.
const resultMarker = "ENVCHECK_RESULT "

const infoScript = `
import json, sys
print("\nENVCHECK_RESULT " + json.dumps({
    "version": sys.version.split()[0],
    "executable": sys.executable,
    "prefix": sys.prefix,
    "base_prefix": getattr(sys, "base_prefix", sys.prefix),
}))
`

// modulesScript takes module names from argv so names never become code.
const modulesScript = `
import importlib, json, sys
real_stdout, sys.stdout = sys.stdout, sys.stderr
out = {}
for name in sys.argv[1:]:
    try:
        m = importlib.import_module(name)
    except Exception as e:
        out[name] = {"ok": False, "error": "%s: %s" % (type(e).__name__, e)}
        continue
    v = getattr(m, "__version__", None)
    if v is None:
        v = getattr(m, "VERSION", None)
    out[name] = {"ok": True, "version": "" if v is None else str(v)}
sys.stdout = real_stdout
print("\nENVCHECK_RESULT " + json.dumps(out))
`

const cudaScript = `
import json, sys
real_stdout, sys.stdout = sys.stdout, sys.stderr
import torch
info = {
    "available": bool(torch.cuda.is_available()),
    "cuda_version": torch.version.cuda or "",
    "cudnn_version": "",
    "devices": [],
}
if info["available"]:
    v = torch.backends.cudnn.version()
    info["cudnn_version"] = "" if v is None else str(v)
    for i in range(torch.cuda.device_count()):
        p = torch.cuda.get_device_properties(i)
        info["devices"].append({"index": i, "name": p.name, "total_memory": int(p.total_memory)})
sys.stdout = real_stdout
print("\nENVCHECK_RESULT " + json.dumps(info))
`

const smokeScript = `
import json, sys
real_stdout, sys.stdout = sys.stdout, sys.stderr
try:
    import torch
    n = int(sys.argv[1])
    x = torch.randn(n, n, device="cuda")
    torch.matmul(x, x)
    torch.cuda.synchronize()
    r = {"ok": True}
except Exception as e:
    r = {"ok": False, "error": str(e) or type(e).__name__}
sys.stdout = real_stdout
print("\nENVCHECK_RESULT " + json.dumps(r))
`
