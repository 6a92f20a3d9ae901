package shader

// GLSL sources for the pass pipelines. The mesh passes share one
// vertex shader and the std140 MeshUniforms block; binding indices
// are assigned by the renderer with UniformBlockBinding.

const meshVert = `#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

layout(std140) uniform MeshUniforms {
	mat4 projectionMatrix;
	mat4 viewMatrix;
	mat4 modelMatrix;
	vec4 color;
	float time;
};

out vec3 vNormal;
out vec2 vUV;

void main() {
	vNormal = mat3(modelMatrix) * inNormal;
	vUV = inUV;
	gl_Position = projectionMatrix * viewMatrix * modelMatrix * vec4(inPosition, 1.0);
}
`

const silhouetteFrag = `#version 410 core
layout(std140) uniform MeshUniforms {
	mat4 projectionMatrix;
	mat4 viewMatrix;
	mat4 modelMatrix;
	vec4 color;
	float time;
};

out vec4 fragColor;

void main() {
	fragColor = color;
}
`

const meshFrag = `#version 410 core
layout(std140) uniform MeshUniforms {
	mat4 projectionMatrix;
	mat4 viewMatrix;
	mat4 modelMatrix;
	vec4 color;
	float time;
};

uniform sampler2D meshTexture;

in vec3 vNormal;
in vec2 vUV;
out vec4 fragColor;

void main() {
	fragColor = texture(meshTexture, vUV) * color;
}
`

// fullscreenVert emits one oversized triangle, no vertex buffer.
const fullscreenVert = `#version 410 core
const vec2 verts[3] = vec2[3](vec2(-1.0, -1.0), vec2(3.0, -1.0), vec2(-1.0, 3.0));

out vec2 vUV;

void main() {
	vec2 p = verts[gl_VertexID];
	vUV = p * 0.5 + 0.5;
	gl_Position = vec4(p, 0.0, 1.0);
}
`

const composeFrag = `#version 410 core
uniform sampler2D silhouetteTexture;
uniform vec2 texelSize;
uniform vec4 outlineColor;

in vec2 vUV;
out vec4 fragColor;

int objectID(vec2 uv) {
	return int(round(texture(silhouetteTexture, uv).r * 255.0));
}

void main() {
	int center = objectID(vUV);
	int left   = objectID(vUV - vec2(texelSize.x, 0.0));
	int right  = objectID(vUV + vec2(texelSize.x, 0.0));
	int down   = objectID(vUV - vec2(0.0, texelSize.y));
	int up     = objectID(vUV + vec2(0.0, texelSize.y));

	bool edge = center != left || center != right || center != down || center != up;
	fragColor = edge ? outlineColor : vec4(0.0);
}
`

const debugVert = `#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 viewProjection;

void main() {
	gl_Position = viewProjection * vec4(inPosition, 1.0);
}
`

const debugFrag = `#version 410 core
uniform vec4 lineColor;

out vec4 fragColor;

void main() {
	fragColor = lineColor;
}
`

const blitFrag = `#version 410 core
uniform sampler2D screenTexture;
uniform float zoom;
uniform vec2 zoomCenter;

in vec2 vUV;
out vec4 fragColor;

void main() {
	vec2 uv = (vUV - zoomCenter) / zoom + zoomCenter;
	fragColor = texture(screenTexture, clamp(uv, 0.0, 1.0));
}
`
