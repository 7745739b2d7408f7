package webgpu

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// gatherShader copies indexed elements into a dense run:
// dst[base + e*words + w] = src[indices[e]*words + w].
// One thread per 32-bit word; elements are params.words words wide.
const gatherShader = `
@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst: array<u32>;
@group(0) @binding(2) var<storage, read> indices: array<u32>;

struct Params {
    count: u32,
    words: u32,
    base: u32,
    _pad: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.count * params.words) {
        return;
    }
    let e = i / params.words;
    let w = i % params.words;
    dst[params.base + e * params.words + w] = src[indices[e] * params.words + w];
}
`

// scatterShader copies a dense run out to indexed elements:
// dst[indices[e]*words + w] = src[base + e*words + w].
const scatterShader = `
@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst: array<u32>;
@group(0) @binding(2) var<storage, read> indices: array<u32>;

struct Params {
    count: u32,
    words: u32,
    base: u32,
    _pad: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.count * params.words) {
        return;
    }
    let e = i / params.words;
    let w = i % params.words;
    dst[indices[e] * params.words + w] = src[params.base + e * params.words + w];
}
`
